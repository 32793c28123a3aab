package web

import (
	"net/http"

	"github.com/PancyStudios/DiscordNova/pkg/config"
	"github.com/gin-gonic/gin"
)

// HealthSource reports the state of the process for /api/status.
type HealthSource interface {
	DatabaseStatus() (string, bool)
	BotOnline() bool
	Viewers() int
}

// SetupStatusRoutes registers the unauthenticated health endpoints
func SetupStatusRoutes(s *Server, src HealthSource) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler(src))
		api.GET("/health", healthHandler)
	}
}

// statusHandler returns the bot and database status
func statusHandler(src HealthSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus, dbOnline := src.DatabaseStatus()

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": config.Version,
			"database": gin.H{
				"status":   dbStatus,
				"isOnline": dbOnline,
			},
			"bot": gin.H{
				"isOnline": src.BotOnline(),
			},
			"realtime": gin.H{
				"viewers": src.Viewers(),
			},
		})
	}
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "DiscordNova is running",
	})
}
