// Package api exposes the dashboard REST endpoints and the realtime channel.
package api

import (
	"strconv"
	"strings"

	"github.com/PancyStudios/DiscordNova/internal/auth"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
	"github.com/PancyStudios/DiscordNova/pkg/web"
	"github.com/gin-gonic/gin"
)

// Handler serves the /api routes.
type Handler struct {
	svc           *service.Service
	tokens        *auth.JWTManager
	oauth         auth.Exchanger
	hub           *realtime.Hub
	wsRequireAuth bool
	dashboardURL  string
}

// Options configures optional behaviour of the handler.
type Options struct {
	// WSRequireAuth gates /ws behind the bearer token.
	WSRequireAuth bool
	// DashboardURL is where /auth/callback redirects. Empty redirects to the
	// same host.
	DashboardURL string
}

// New creates the handler.
func New(svc *service.Service, tokens *auth.JWTManager, oauth auth.Exchanger, hub *realtime.Hub, opts Options) *Handler {
	return &Handler{
		svc:           svc,
		tokens:        tokens,
		oauth:         oauth,
		hub:           hub,
		wsRequireAuth: opts.WSRequireAuth,
		dashboardURL:  strings.TrimSuffix(opts.DashboardURL, "/"),
	}
}

// Register mounts every route on the server.
func (h *Handler) Register(s *web.Server) {
	s.GET("/auth/callback", h.callback)

	api := s.Group("/api")
	api.GET("/auth/url", h.authURL)
	api.POST("/auth/discord", h.login)

	authed := api.Group("", h.requireAuth())
	{
		authed.GET("/user/me", h.me)
		authed.GET("/user/servers", h.userServers)

		authed.GET("/dashboard/stats/:id", h.dashboardStats)

		authed.GET("/warnings/:id", h.listWarnings)
		authed.POST("/warnings", h.createWarning)
		authed.DELETE("/warnings/:id", h.deleteWarning)

		authed.GET("/ticket-categories/:id", h.listCategories)
		authed.POST("/ticket-categories", h.createCategory)
		authed.PUT("/ticket-categories/:id", h.updateCategory)
		authed.DELETE("/ticket-categories/:id", h.deleteCategory)

		authed.GET("/tickets/:id", h.listTickets)
		authed.GET("/tickets/:id/active", h.listActiveTickets)
		authed.POST("/tickets", h.createTicket)
		authed.PUT("/tickets/:id/claim", h.claimTicket)
		authed.PUT("/tickets/:id", h.updateTicket)
		authed.GET("/tickets/:id/messages", h.ticketMessages)
		authed.POST("/tickets/:id/messages", h.postTicketMessage)

		authed.GET("/moderation-logs/:id", h.moderationLogs)
	}

	if h.wsRequireAuth {
		s.GET("/ws", h.requireAuth(), h.websocket)
	} else {
		s.GET("/ws", h.websocket)
	}
}

// intParam parses a numeric path parameter.
func intParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
