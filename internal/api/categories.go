package api

import (
	"net/http"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListTicketCategories(c.Request.Context(), c.Param("id")))
}

func (h *Handler) createCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}
	category, err := h.svc.CreateTicketCategory(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid category id")
		return
	}
	var patch service.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}
	category, err := h.svc.UpdateTicketCategory(c.Request.Context(), id, patch)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.svc.DeleteTicketCategory(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
