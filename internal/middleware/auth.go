package middleware

import (
	"net/http"
	"strings"

	"github.com/chachabrian/sewo-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the caller from a bearer token and stores userId and userType on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Browsers cannot set headers on websocket upgrades.
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header or token query parameter required", "code": "unauthorized"})
			return
		}

		identity, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "code": "unauthorized"})
			return
		}

		c.Set("userId", identity.UserID)
		c.Set("userType", string(identity.Role))
		c.Next()
	}
}
