package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller_user_id"

// requireAuth validates the bearer token and stores its subject on the context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization"})
			return
		}
		claims, err := h.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerKey, claims.Subject)
		c.Next()
	}
}

// requireSelf rejects callers acting on another user's :userId.
func (h *Handler) requireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		if callerUserID(c) != c.Param("userId") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func callerUserID(c *gin.Context) string {
	return c.GetString(callerKey)
}
