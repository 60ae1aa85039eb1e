package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minibank/core/internal/user"
)

const (
	// ContextKeyUser is the key for storing the authenticated user in gin context
	ContextKeyUser = "authUser"
)

// Middleware extracts and validates the bearer token from the request.
// Sets the authenticated user in context if valid.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("Authorization"); raw != "" {
			u, err := m.ValidateToken(c.Request.Context(), raw)
			if err == nil {
				c.Set(ContextKeyUser, u)
			}
		}
		c.Next()
	}
}

// RequireAuth middleware rejects requests without valid auth
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextKeyUser); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Bearer token required. Include 'Authorization: Bearer <token>' header.",
			})
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated user from context.
func GetUser(c *gin.Context) (*user.User, bool) {
	v, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	return v.(*user.User), true
}

// UserID returns the authenticated user's id, or "" when unauthenticated.
func UserID(c *gin.Context) string {
	u, ok := GetUser(c)
	if !ok {
		return ""
	}
	return u.ID
}
