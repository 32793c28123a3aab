package api

import (
	"net/http"

	"github.com/PancyStudios/DiscordNova/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// tokenFrom reads the bearer token from the Authorization header or, for
// websocket upgrades, the token query parameter.
func tokenFrom(c *gin.Context) string {
	if token := auth.BearerToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	return c.Query("token")
}

// requireAuth rejects requests without a valid bearer token. A missing token
// is 401, an invalid one 403.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			writeError(c, http.StatusUnauthorized, "Access token required")
			return
		}
		claims, err := h.tokens.Parse(token)
		if err != nil {
			writeError(c, http.StatusForbidden, "Invalid token")
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
