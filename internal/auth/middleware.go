package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const contextUserIDKey = "user_id"

// RequireAuth is a middleware that ensures the request carries a valid bearer
// token. Any missing, malformed or expired token yields a uniform 401.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the request context.
// The boolean is false when the middleware did not run or rejected the request.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
