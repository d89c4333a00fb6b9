package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yard-tracking-backend/config"
	"yard-tracking-backend/internal/auth"
)

// PrincipalKey is the gin context key under which the authenticated
// principal's claims are stored.
const PrincipalKey = "principal"

// RequireAuth rejects requests that do not carry a valid Bearer token.
func RequireAuth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.VerifyAccessToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(PrincipalKey, claims)
		c.Next()
	}
}
