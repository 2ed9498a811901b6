package controller

import (
	"encoding/json"

	"socialite/internal/infrastructure/realtime"
	chat "socialite/internal/pkg/chat/domain"
)

// Outbound event frames. One fixed shape per event kind; clients switch on
// the type tag.
type typingFrame struct {
	Type           string `json:"type"`
	FromUserID     string `json:"from_user_id"`
	ConversationID string `json:"conversation_id"`
	IsTyping       bool   `json:"is_typing"`
}

type directMessageFrame struct {
	Type           string          `json:"type"`
	FromUserID     string          `json:"from_user_id"`
	ConversationID string          `json:"conversation_id"`
	Message        json.RawMessage `json:"message"`
}

type messageDeletedFrame struct {
	Type           string `json:"type"`
	FromUserID     string `json:"from_user_id"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
}

type readReceiptFrame struct {
	Type           string   `json:"type"`
	FromUserID     string   `json:"from_user_id"`
	ConversationID string   `json:"conversation_id"`
	MessageIDs     []string `json:"message_ids"`
}

// fanOut delivers payload to every live connection of userID except the one
// named by excludeConnID (empty string excludes nothing). Send failures are
// per-connection and deliberately ignored: a dropped push degrades to the
// next REST history fetch.
func fanOut(reg *realtime.Registry, userID string, payload []byte, excludeConnID string) int {
	delivered := 0
	for _, conn := range reg.Lookup(userID) {
		if excludeConnID != "" && conn.ID == excludeConnID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// broadcastMessageDeleted pushes the tombstone to every live connection of
// the recipient and to the sender's other connections, so all of the
// sender's open tabs converge. originConnID is excluded; pass "" when the
// deletion came over REST rather than a websocket.
func broadcastMessageDeleted(reg *realtime.Registry, msg *chat.Message, originConnID string) int {
	payload, err := json.Marshal(messageDeletedFrame{
		Type:           "message_deleted",
		FromUserID:     msg.SenderID,
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
	})
	if err != nil {
		return 0
	}
	delivered := fanOut(reg, msg.RecipientID, payload, "")
	delivered += fanOut(reg, msg.SenderID, payload, originConnID)
	return delivered
}
