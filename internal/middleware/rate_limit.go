package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"socialite/internal/infrastructure/cache/port"
)

// RateLimit caps how many requests a user may make within the window using a
// counter in the cache. It must run after RequireAuth so the key is per user
// rather than per IP.
func RateLimit(cache port.Cache, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			userID = c.ClientIP()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", name, userID)

		count, err := cache.Incr(c.Request.Context(), key, window)
		if err != nil {
			// Limiter outage must not take the API down with it.
			log.Printf("rate limit increment failed: %v", err)
			c.Next()
			return
		}

		remaining := limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
