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

// EditMessageController handles message edits (one controller per endpoint)
type EditMessageController struct {
	UC *usecase.EditMessageUseCase
}

func NewEditMessageController(pool *pgxpool.Pool) *EditMessageController {
	repo := repoAdapter.NewPgChatRepository(pool)
	return &EditMessageController{UC: usecase.NewEditMessageUseCase(repo)}
}

type editMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *EditMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		var req editMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.EditMessageInput{
			RequesterID: middleware.CurrentUserID(c),
			MessageID:   messageID,
			Body:        req.Body,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toPayload(*msg))
	}
}
