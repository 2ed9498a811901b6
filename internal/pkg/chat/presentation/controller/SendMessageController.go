package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	queueport "socialite/internal/infrastructure/queue/port"
	"socialite/internal/middleware"
	"socialite/internal/pkg/chat/application/usecase"
	repoAdapter "socialite/internal/pkg/chat/persistence/repository/adapter"
	socialAdapter "socialite/internal/repository/adapter"
)

// SendMessageController handles the send-message endpoint only (one controller per endpoint)
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool, queue queueport.Client) *SendMessageController {
	repo := repoAdapter.NewPgChatRepository(pool)
	friends := socialAdapter.NewPgFriendGraph(pool)
	return &SendMessageController{UC: usecase.NewSendMessageUseCase(repo, friends, queue)}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	RecipientID string   `json:"recipient_id" binding:"required"`
	Body        string   `json:"body"`
	MediaURLs   []string `json:"media_urls"`
	MediaKinds  []string `json:"media_kinds"`
}

// Handle persists the message synchronously. Real-time delivery to the
// recipient is the client's follow-up over its websocket; this path is the
// source of truth.
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			SenderID:    middleware.CurrentUserID(c),
			RecipientID: req.RecipientID,
			Body:        req.Body,
			MediaURLs:   req.MediaURLs,
			MediaKinds:  req.MediaKinds,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, toPayload(*msg))
	}
}
