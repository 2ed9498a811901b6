package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "socialite/internal/infrastructure/cache/port"
	qport "socialite/internal/infrastructure/queue/port"
	"socialite/internal/infrastructure/realtime"
	"socialite/internal/middleware"
	"socialite/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers direct-messaging HTTP endpoints under the given
// router group. It constructs per-endpoint controllers and binds them
// directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, queue qport.Client, registry *realtime.Registry, cache cacheport.Cache, jwtSecret string) {
	listCtl := controller.NewListConversationsController(pool, cache)
	startCtl := controller.NewStartConversationController(pool)
	getMsgCtl := controller.NewGetMessagesController(pool)
	sendCtl := controller.NewSendMessageController(pool, queue)
	editCtl := controller.NewEditMessageController(pool)
	deleteCtl := controller.NewDeleteMessageController(pool, registry)
	readCtl := controller.NewMarkReadController(pool)
	socketCtl := controller.NewChatSocketController(pool, registry, jwtSecret)

	// GET /api/v1/dm/ws -> websocket endpoint for realtime messaging.
	// Authenticates inside the handler so it can refuse before the upgrade.
	g.GET("/ws", socketCtl.Handle())

	authed := g.Group("", middleware.RequireAuth(jwtSecret))

	// GET /api/v1/dm/conversations -> list the caller's conversations
	authed.GET("/conversations", listCtl.Handle())

	// POST /api/v1/dm/conversations -> start (or fetch) a conversation
	authed.POST("/conversations", startCtl.Handle())

	// GET /api/v1/dm/conversations/:conversationId/messages -> message history
	authed.GET("/conversations/:conversationId/messages", getMsgCtl.Handle())

	// POST /api/v1/dm/conversations/:conversationId/read -> mark unread as read
	authed.POST("/conversations/:conversationId/read", readCtl.Handle())

	// POST /api/v1/dm/messages -> send a message
	authed.POST("/messages", middleware.RateLimit(cache, "send_message", 30, time.Minute), sendCtl.Handle())

	// PATCH /api/v1/dm/messages/:messageId -> edit a message body
	authed.PATCH("/messages/:messageId", editCtl.Handle())

	// DELETE /api/v1/dm/messages/:messageId -> soft-delete a message
	authed.DELETE("/messages/:messageId", deleteCtl.Handle())
}
