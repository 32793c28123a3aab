package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/models"
)

// UserProfile is the Discord identity of a dashboard user.
type UserProfile struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        string
	AccessToken   string
	RefreshToken  string
}

// ServerInfo describes a guild as seen by the bot or by OAuth.
type ServerInfo struct {
	ID      string
	Name    string
	Icon    string
	OwnerID string
	// BotJoined is only ever raised by this call, never cleared.
	BotJoined bool
}

type defaultCategory struct {
	name, description, emoji, color string
}

var defaultCategories = []defaultCategory{
	{"Soporte", "Ayuda general", "🎧", "#5865F2"},
	{"Quejas", "Reportar infracciones de las reglas", "⚠️", "#ED4245"},
	{"Preguntas", "Preguntas generales", "❓", "#57F287"},
}

// UpsertUser creates the user on first login and refreshes it afterwards.
func (s *Service) UpsertUser(ctx context.Context, p UserProfile) (models.User, error) {
	fields := map[string]string{}
	require(fields, "id", p.ID)
	require(fields, "username", p.Username)
	if err := NewValidationError(fields); err != nil {
		return models.User{}, err
	}

	var user models.User
	err := s.store.Users.Write(ctx, func(items []models.User) ([]models.User, error) {
		for i := range items {
			if items[i].ID != p.ID {
				continue
			}
			items[i].Username = p.Username
			items[i].Discriminator = models.StringPtr(p.Discriminator)
			items[i].Avatar = models.StringPtr(p.Avatar)
			items[i].AccessToken = models.StringPtr(p.AccessToken)
			items[i].RefreshToken = models.StringPtr(p.RefreshToken)
			user = items[i]
			return items, nil
		}
		user = models.User{
			ID:            p.ID,
			Username:      p.Username,
			Discriminator: models.StringPtr(p.Discriminator),
			Avatar:        models.StringPtr(p.Avatar),
			AccessToken:   models.StringPtr(p.AccessToken),
			RefreshToken:  models.StringPtr(p.RefreshToken),
			CreatedAt:     s.timestamp(),
		}
		return append(items, user), nil
	})
	return user, err
}

// GetUser returns a user by Discord id.
func (s *Service) GetUser(_ context.Context, id string) (models.User, error) {
	u, ok := s.store.Users.Find(func(u models.User) bool { return u.ID == id })
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return u, nil
}

// UserServers returns the servers the user owns.
func (s *Service) UserServers(_ context.Context, userID string) []models.Server {
	out := s.store.Servers.Filter(func(srv models.Server) bool { return srv.OwnerID == userID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetServer returns a server by guild id.
func (s *Service) GetServer(_ context.Context, id string) (models.Server, error) {
	srv, ok := s.store.Servers.Find(func(srv models.Server) bool { return srv.ID == id })
	if !ok {
		return models.Server{}, notFound("server", id)
	}
	return srv, nil
}

// RegisterServer creates a server with its default ticket categories, or
// refreshes an existing one. created reports whether it was new.
func (s *Service) RegisterServer(ctx context.Context, info ServerInfo) (server models.Server, created bool, err error) {
	fields := map[string]string{}
	require(fields, "id", info.ID)
	require(fields, "name", info.Name)
	if err := NewValidationError(fields); err != nil {
		return models.Server{}, false, err
	}

	err = s.store.Servers.Write(ctx, func(items []models.Server) ([]models.Server, error) {
		for i := range items {
			if items[i].ID != info.ID {
				continue
			}
			items[i].Name = info.Name
			items[i].Icon = models.StringPtr(info.Icon)
			if info.OwnerID != "" {
				items[i].OwnerID = info.OwnerID
			}
			if info.BotJoined {
				items[i].BotJoined = true
			}
			server = items[i]
			return items, nil
		}
		created = true
		server = models.Server{
			ID:        info.ID,
			Name:      info.Name,
			Icon:      models.StringPtr(info.Icon),
			OwnerID:   info.OwnerID,
			BotJoined: info.BotJoined,
			Settings:  map[string]any{},
			CreatedAt: s.timestamp(),
		}
		return append(items, server), nil
	})
	if err != nil || !created {
		return server, created, err
	}

	for _, dc := range defaultCategories {
		_, err := s.CreateTicketCategory(ctx, CategoryInput{
			ServerID:    server.ID,
			Name:        dc.name,
			Description: models.StringPtr(dc.description),
			Emoji:       models.StringPtr(dc.emoji),
			Color:       dc.color,
		})
		if err != nil {
			return server, created, fmt.Errorf("crear categorías por defecto: %w", err)
		}
	}
	logger.Success(fmt.Sprintf("Servidor %s (%s) registrado", server.Name, server.ID), "Service")
	return server, created, nil
}
