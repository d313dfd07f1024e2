package middleware

import (
	"strings"

	"storefront-gateway/internal/auth"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware extracts user info from a bearer token when one
// is present, but never rejects the request. Guests and signed-in shoppers
// share the same cart endpoints; a valid token only lets the cart session
// attach to the user.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.Next()
			return
		}

		claims, err := auth.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
