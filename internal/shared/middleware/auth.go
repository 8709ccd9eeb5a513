package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/response"
	"blog-backend/pkg/jwt"
)

// ContextUserIDKey is the gin context key the auth middleware stores the
// authenticated user id under.
const ContextUserIDKey = "userID"

// AuthMiddleware validates the Bearer JWT and injects the caller's user id
// into the gin context for downstream handlers.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		if claims.UserID <= 0 {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserIDFromContext reads the authenticated user id set by AuthMiddleware.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
