package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialite/internal/infrastructure/realtime"
	"socialite/internal/middleware"
	"socialite/internal/pkg/chat/application/usecase"
	repoAdapter "socialite/internal/pkg/chat/persistence/repository/adapter"
)

// DeleteMessageController handles message deletion (one controller per endpoint)
type DeleteMessageController struct {
	UC       *usecase.DeleteMessageUseCase
	registry *realtime.Registry
}

func NewDeleteMessageController(pool *pgxpool.Pool, registry *realtime.Registry) *DeleteMessageController {
	repo := repoAdapter.NewPgChatRepository(pool)
	return &DeleteMessageController{UC: usecase.NewDeleteMessageUseCase(repo), registry: registry}
}

// Handle soft-deletes the message, then pushes the tombstone to every live
// connection of both parties as a best-effort side effect.
func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.DeleteMessageInput{
			RequesterID: middleware.CurrentUserID(c),
			MessageID:   messageID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if h.registry != nil {
			broadcastMessageDeleted(h.registry, msg, "")
		}

		c.JSON(http.StatusOK, gin.H{"id": msg.ID, "deleted": true})
	}
}
