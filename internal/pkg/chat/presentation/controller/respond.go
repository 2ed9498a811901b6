package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"socialite/internal/pkg/chat/application/usecase"
	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

// respondError maps domain and use case errors onto HTTP statuses. Entitlement
// failures are always explicit 403s; validation and state errors are 400s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrNotFriends),
		errors.Is(err, chat.ErrNotParticipant),
		errors.Is(err, chat.ErrNotSender):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrMediaKindMismatch),
		errors.Is(err, chat.ErrSelfConversation),
		errors.Is(err, chat.ErrMessageDeleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// messagePayload is the wire shape of a message, shared by the REST
// responses and the websocket frames.
type messagePayload struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	RecipientID    string     `json:"recipient_id"`
	Body           string     `json:"body"`
	MediaURLs      []string   `json:"media_urls"`
	MediaKinds     []string   `json:"media_kinds"`
	DeliveredAt    time.Time  `json:"delivered_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	Edited         bool       `json:"edited"`
	Deleted        bool       `json:"deleted"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toPayload(m chat.Message) messagePayload {
	return messagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		Body:           m.Body,
		MediaURLs:      m.MediaURLs,
		MediaKinds:     m.MediaKinds,
		DeliveredAt:    m.DeliveredAt,
		ReadAt:         m.ReadAt,
		Edited:         m.Edited,
		Deleted:        m.Deleted,
		CreatedAt:      m.CreatedAt,
	}
}

func toConversationPayload(c chat.Conversation) gin.H {
	return gin.H{
		"id":                   c.ID,
		"participants":         []string{c.UserA, c.UserB},
		"last_message_at":      c.LastMessageAt,
		"last_message_preview": c.LastMessagePreview,
		"last_sender_id":       c.LastSenderID,
		"created_at":           c.CreatedAt,
	}
}
