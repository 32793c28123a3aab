package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// writeDomainError maps service errors to HTTP responses.
func writeDomainError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid request", "fields": verr.Fields})
	case errors.Is(err, service.ErrValidation):
		writeError(c, http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrUpstream):
		logger.Warn(fmt.Sprintf("Fallo de autenticación con Discord: %v", err), "API")
		writeError(c, http.StatusBadGateway, "authentication failed")
	default:
		logger.Error(fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err), "API")
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}
