package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "socialite/internal/infrastructure/cache/port"
	"socialite/internal/middleware"
	"socialite/internal/pkg/chat/application/usecase"
	repoAdapter "socialite/internal/pkg/chat/persistence/repository/adapter"
	userAdapter "socialite/internal/repository/adapter"
)

// ListConversationsController handles the conversation list endpoint (one controller per endpoint)
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool, cache cacheport.Cache) *ListConversationsController {
	repo := repoAdapter.NewPgChatRepository(pool)
	users := userAdapter.NewPgUserRepository(pool)
	return &ListConversationsController{UC: usecase.NewListConversationsUseCase(repo, users, cache)}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, usecase.ListConversationsInput{UserID: userID})
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]gin.H, 0, len(views))
		for _, v := range views {
			entry := toConversationPayload(v.Conversation)
			entry["counterpart"] = v.Counterpart
			out = append(out, entry)
		}
		c.JSON(http.StatusOK, gin.H{"conversations": out, "count": len(out)})
	}
}
