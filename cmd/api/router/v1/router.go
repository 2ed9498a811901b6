package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "socialite/internal/infrastructure/cache/port"
	qport "socialite/internal/infrastructure/queue/port"
	"socialite/internal/infrastructure/realtime"
	httpHandler "socialite/internal/pkg/chat/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, queue qport.Client, registry *realtime.Registry, cache cacheport.Cache, jwtSecret string) {
	v1 := r.Group("/api/v1")
	// Pass the shared infrastructure down to the HTTP layer
	httpHandler.RegisterRoutes(v1.Group("/dm"), pool, queue, registry, cache, jwtSecret)
}
