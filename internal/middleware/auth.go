package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"socialite/internal/auth"
)

const userIDKey = "user_id"

// RequireAuth validates the Bearer token on every request and stores the
// caller's user ID in the gin context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// BearerToken extracts the credential from the Authorization header, falling
// back to the token query parameter for websocket handshakes where browsers
// cannot set headers.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

// CurrentUserID returns the authenticated user ID set by RequireAuth.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
