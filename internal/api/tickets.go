package api

import (
	"net/http"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/gin-gonic/gin"
)

type createTicketRequest struct {
	ServerID   string                `json:"serverId"`
	CategoryID int64                 `json:"categoryId"`
	ChannelID  *string               `json:"channelId"`
	Subject    string                `json:"subject"`
	Priority   models.TicketPriority `json:"priority"`
}

type postMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handler) listTickets(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListTickets(c.Request.Context(), c.Param("id")))
}

func (h *Handler) listActiveTickets(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListActiveTickets(c.Request.Context(), c.Param("id")))
}

func (h *Handler) createTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}
	ticket, err := h.svc.CreateTicket(c.Request.Context(), service.TicketInput{
		ServerID:   req.ServerID,
		UserID:     callerID(c),
		CategoryID: req.CategoryID,
		ChannelID:  req.ChannelID,
		Subject:    req.Subject,
		Priority:   req.Priority,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) claimTicket(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid ticket id")
		return
	}
	ticket, err := h.svc.ClaimTicket(c.Request.Context(), id, callerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) updateTicket(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid ticket id")
		return
	}
	var patch service.TicketPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}
	ticket, err := h.svc.UpdateTicket(c.Request.Context(), id, patch)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) ticketMessages(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid ticket id")
		return
	}
	c.JSON(http.StatusOK, h.svc.TicketMessages(c.Request.Context(), id))
}

// postTicketMessage adds a reply. Anyone other than the requester counts as
// staff.
func (h *Handler) postTicketMessage(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid ticket id")
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}

	ctx := c.Request.Context()
	ticket, err := h.svc.GetTicket(ctx, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	msg, err := h.svc.PostTicketMessage(ctx, service.TicketMessageInput{
		TicketID: ticket.ID,
		UserID:   callerID(c),
		Content:  req.Content,
		IsStaff:  callerID(c) != ticket.UserID,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
