package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/constants"
	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/token"
)

// RequireAuth validates the bearer token and stores the caller's user ID in
// the context. A missing or invalid token is a hard 401; there is no fallback
// identity.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			apierrors.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}

		identity := tokens.Verify(strings.TrimPrefix(auth, "Bearer "))
		if identity == nil {
			apierrors.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, identity.ID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
