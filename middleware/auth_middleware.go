package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentals-api/dto"
	"rentals-api/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextIsHost = "is_host"
)

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the caller's identity in the gin context.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextIsHost, claims.IsHost)

		c.Next()
	}
}

// HostMiddleware lets only hosts through. It runs after AuthMiddleware.
func HostMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			abortUnauthorized(c, "authentication required")
			return
		}

		if !c.GetBool(ContextIsHost) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "forbidden",
				Message: "host privileges required",
			})
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, or "" when the request
// is anonymous.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
