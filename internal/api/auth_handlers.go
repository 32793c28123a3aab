package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type loginRequest struct {
	Code string `json:"code"`
}

// stateCookie holds the OAuth state issued by /api/auth/url.
const stateCookie = "nova_oauth_state"

// authURL returns the Discord authorization URL and remembers its state.
func (h *Handler) authURL(c *gin.Context) {
	state := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/auth", "", false, true)
	c.JSON(http.StatusOK, gin.H{"url": h.oauth.AuthCodeURL(state), "state": state})
}

// login exchanges a Discord OAuth code for a dashboard token.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		writeError(c, http.StatusBadRequest, "Authorization code required")
		return
	}

	token, user, err := h.authenticate(c.Request.Context(), req.Code)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user.Public()})
}

// callback is the OAuth redirect target. It signs the user in and sends the
// browser back to the dashboard with the token, or to the login page with an
// error code.
func (h *Handler) callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.dashboardURL+"/login?error=no_code")
		return
	}
	if expected, err := c.Cookie(stateCookie); err == nil && expected != c.Query("state") {
		c.Redirect(http.StatusFound, h.dashboardURL+"/login?error=invalid_state")
		return
	}

	token, _, err := h.authenticate(c.Request.Context(), code)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en OAuth de Discord: %v", err), "API")
		c.Redirect(http.StatusFound, h.dashboardURL+"/login?error=auth_failed")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth", "", false, true)
	c.Redirect(http.StatusFound, h.dashboardURL+"/?token="+url.QueryEscape(token))
}

// authenticate redeems code, stores the user and registers every guild the
// user owns or administers. It returns a signed dashboard token.
func (h *Handler) authenticate(ctx context.Context, code string) (string, models.User, error) {
	identity, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		return "", models.User{}, fmt.Errorf("%w: %v", service.ErrUpstream, err)
	}

	user, err := h.svc.UpsertUser(ctx, service.UserProfile{
		ID:            identity.ID,
		Username:      identity.Username,
		Discriminator: identity.Discriminator,
		Avatar:        identity.Avatar,
		AccessToken:   identity.AccessToken,
		RefreshToken:  identity.RefreshToken,
	})
	if err != nil {
		return "", models.User{}, err
	}

	for _, g := range identity.Guilds {
		if !g.CanManage() {
			continue
		}
		info := service.ServerInfo{ID: g.ID, Name: g.Name, Icon: g.Icon}
		// Admins claim a server nobody registered yet; real owners always do.
		if _, err := h.svc.GetServer(ctx, g.ID); g.Owner || err != nil {
			info.OwnerID = identity.ID
		}
		if _, _, err := h.svc.RegisterServer(ctx, info); err != nil {
			return "", models.User{}, err
		}
	}

	token, _, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", models.User{}, err
	}

	logger.Info(fmt.Sprintf("Inicio de sesión de %s", user.Username), "API")
	return token, user, nil
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), callerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (h *Handler) userServers(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.UserServers(c.Request.Context(), callerID(c)))
}

func (h *Handler) dashboardStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.DashboardStats(c.Request.Context(), c.Param("id")))
}

func (h *Handler) moderationLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ModerationLogs(c.Request.Context(), c.Param("id"), 20))
}

func (h *Handler) websocket(c *gin.Context) {
	if err := h.hub.Serve(c.Writer, c.Request); err != nil {
		logger.Warn(fmt.Sprintf("Upgrade de websocket fallido: %v", err), "API")
	}
}
