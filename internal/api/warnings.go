package api

import (
	"net/http"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/gin-gonic/gin"
)

type createWarningRequest struct {
	UserID   string `json:"userId"`
	ServerID string `json:"serverId"`
	Reason   string `json:"reason"`
}

func (h *Handler) listWarnings(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.RecentWarnings(c.Request.Context(), c.Param("id"), 50))
}

func (h *Handler) createWarning(c *gin.Context) {
	var req createWarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}

	warning, err := h.svc.IssueWarning(c.Request.Context(), service.IssueWarningInput{
		UserID:      req.UserID,
		ServerID:    req.ServerID,
		ModeratorID: callerID(c),
		Reason:      req.Reason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, warning)
}

func (h *Handler) deleteWarning(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid warning id")
		return
	}

	warning, err := h.svc.RevokeWarning(c.Request.Context(), service.RevokeWarningInput{
		WarningID:   id,
		ModeratorID: callerID(c),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, warning)
}
