package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialite/internal/auth"
	"socialite/internal/infrastructure/realtime"
	"socialite/internal/middleware"
	repoAdapter "socialite/internal/pkg/chat/persistence/repository/adapter"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

const (
	maxFrameSize = 1 << 20 // 1 MiB
	pongWait     = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth is the bearer token, not the Origin header.
		return true
	},
}

// inboundFrame is the superset of fields across the four client event kinds.
// Decoded once at the boundary, then validated per type before dispatch.
type inboundFrame struct {
	Type           string          `json:"type"`
	ToUserID       string          `json:"to_user_id"`
	ConversationID string          `json:"conversation_id"`
	IsTyping       bool            `json:"is_typing"`
	Message        json.RawMessage `json:"message"`
	MessageID      string          `json:"message_id"`
	MessageIDs     []string        `json:"message_ids"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ChatSocketController owns the websocket endpoint: handshake auth, presence
// registration, and the relay protocol.
type ChatSocketController struct {
	registry  *realtime.Registry
	repo      repository.ChatRepository
	jwtSecret string
}

func NewChatSocketController(pool *pgxpool.Pool, registry *realtime.Registry, jwtSecret string) *ChatSocketController {
	return &ChatSocketController{
		registry:  registry,
		repo:      repoAdapter.NewPgChatRepository(pool),
		jwtSecret: jwtSecret,
	}
}

// Handle upgrades the request to a websocket after verifying the bearer
// token. Cleanup is tied to the read loop returning, so abrupt network loss
// unregisters the connection the same way a polite close does.
func (h *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseToken(middleware.BearerToken(c), h.jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("chat socket: upgrade failed for user %s: %v", claims.UserID, err)
			return
		}

		conn := realtime.NewConnection(claims.UserID, ws)
		h.registry.Register(conn.UserID, conn)
		defer func() {
			h.registry.Unregister(conn.UserID, conn)
			conn.Close(websocket.CloseNormalClosure, "")
		}()

		ws.SetReadLimit(maxFrameSize)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})

		h.sendJSON(conn, gin.H{"type": "connected", "connection_id": conn.ID})

		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("chat socket: user %s conn %s: %v", conn.UserID, conn.ID, err)
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				h.sendError(conn, "malformed frame")
				continue
			}
			h.dispatch(conn, frame)
		}
	}
}

func (h *ChatSocketController) dispatch(conn *realtime.Connection, frame inboundFrame) {
	switch frame.Type {
	case "typing":
		h.handleTyping(conn, frame)
	case "direct_message":
		h.handleDirectMessage(conn, frame)
	case "message_deleted":
		h.handleMessageDeleted(conn, frame)
	case "read_receipt":
		h.handleReadReceipt(conn, frame)
	default:
		h.sendError(conn, "unknown event type: "+frame.Type)
	}
}

// handleTyping relays the indicator to every live connection of the
// counterpart. An offline counterpart means the event is dropped; typing
// state is ephemeral and never queued.
func (h *ChatSocketController) handleTyping(conn *realtime.Connection, frame inboundFrame) {
	if frame.ToUserID == "" || frame.ConversationID == "" {
		h.sendError(conn, "typing requires to_user_id and conversation_id")
		return
	}
	payload, err := json.Marshal(typingFrame{
		Type:           "typing",
		FromUserID:     conn.UserID,
		ConversationID: frame.ConversationID,
		IsTyping:       frame.IsTyping,
	})
	if err != nil {
		return
	}
	fanOut(h.registry, frame.ToUserID, payload, "")
}

// handleDirectMessage is a fan-out-only relay. The message is expected to be
// persisted over REST before the client emits this; nothing is written here.
func (h *ChatSocketController) handleDirectMessage(conn *realtime.Connection, frame inboundFrame) {
	if frame.ToUserID == "" || frame.ConversationID == "" || len(frame.Message) == 0 {
		h.sendError(conn, "direct_message requires to_user_id, conversation_id and message")
		return
	}
	payload, err := json.Marshal(directMessageFrame{
		Type:           "direct_message",
		FromUserID:     conn.UserID,
		ConversationID: frame.ConversationID,
		Message:        frame.Message,
	})
	if err != nil {
		return
	}
	fanOut(h.registry, frame.ToUserID, payload, "")
}

// handleMessageDeleted ignores the client-supplied target and re-derives the
// recipient from the stored message, after checking the emitter authored it.
// The tombstone also reaches the emitter's other connections so every open
// tab converges.
func (h *ChatSocketController) handleMessageDeleted(conn *realtime.Connection, frame inboundFrame) {
	if frame.MessageID == "" {
		h.sendError(conn, "message_deleted requires message_id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	msg, err := h.repo.GetMessage(ctx, frame.MessageID)
	if err != nil {
		h.sendError(conn, "unknown message")
		return
	}
	if msg.SenderID != conn.UserID {
		h.sendError(conn, "not the message sender")
		return
	}

	broadcastMessageDeleted(h.registry, msg, conn.ID)
}

func (h *ChatSocketController) handleReadReceipt(conn *realtime.Connection, frame inboundFrame) {
	if frame.ToUserID == "" || frame.ConversationID == "" || len(frame.MessageIDs) == 0 {
		h.sendError(conn, "read_receipt requires to_user_id, conversation_id and message_ids")
		return
	}
	payload, err := json.Marshal(readReceiptFrame{
		Type:           "read_receipt",
		FromUserID:     conn.UserID,
		ConversationID: frame.ConversationID,
		MessageIDs:     frame.MessageIDs,
	})
	if err != nil {
		return
	}
	fanOut(h.registry, frame.ToUserID, payload, "")
}

func (h *ChatSocketController) sendError(conn *realtime.Connection, detail string) {
	h.sendJSON(conn, errorFrame{Type: "error", Error: detail})
}

func (h *ChatSocketController) sendJSON(conn *realtime.Connection, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := conn.Send(payload); err != nil {
		log.Printf("chat socket: send to user %s conn %s failed: %v", conn.UserID, conn.ID, err)
	}
}
