package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lastleaf-be/internal/service"
)

const (
	// AuthCookieName is the cookie carrying the session token.
	AuthCookieName = "auth-token"

	userIDKey = "user_id"
	tokenKey  = "auth_token"
)

// AuthMiddleware rejects requests without a valid session cookie and stores
// the caller's id in the context.
func AuthMiddleware(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookieName)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := sessions.Authenticate(c.Request.Context(), token)
		if err != nil || claims.UserID == "" {
			abortUnauthorized(c)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// UserID returns the id set by AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SessionToken returns the raw token validated by AuthMiddleware.
func SessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
