package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialite/internal/middleware"
	"socialite/internal/pkg/chat/application/usecase"
	repoAdapter "socialite/internal/pkg/chat/persistence/repository/adapter"
)

// MarkReadController handles the mark-read endpoint (one controller per endpoint)
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(pool *pgxpool.Pool) *MarkReadController {
	repo := repoAdapter.NewPgChatRepository(pool)
	return &MarkReadController{UC: usecase.NewMarkReadUseCase(repo)}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		n, err := h.UC.Execute(ctx, usecase.MarkReadInput{
			ConversationID: conversationID,
			RequesterID:    middleware.CurrentUserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"marked": n})
	}
}
