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
	socialAdapter "socialite/internal/repository/adapter"
)

// StartConversationController handles explicit conversation creation
// (one controller per endpoint)
type StartConversationController struct {
	UC *usecase.StartConversationUseCase
}

func NewStartConversationController(pool *pgxpool.Pool) *StartConversationController {
	repo := repoAdapter.NewPgChatRepository(pool)
	friends := socialAdapter.NewPgFriendGraph(pool)
	return &StartConversationController{UC: usecase.NewStartConversationUseCase(repo, friends)}
}

type startConversationRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
}

func (h *StartConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.StartConversationInput{
			RequesterID: middleware.CurrentUserID(c),
			RecipientID: req.RecipientID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, toConversationPayload(*conv))
	}
}
