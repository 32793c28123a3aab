package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PancyStudios/DiscordNova/pkg/database"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryInput describes a new ticket category.
type CategoryInput struct {
	ServerID    string  `json:"serverId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Emoji       *string `json:"emoji"`
	Color       string  `json:"color"`
}

// CategoryPatch changes the fields that are set.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Emoji       *string `json:"emoji"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// CreateTicketCategory adds an active category, defaulting the color.
func (s *Service) CreateTicketCategory(ctx context.Context, in CategoryInput) (models.TicketCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	fields := map[string]string{}
	require(fields, "serverId", in.ServerID)
	require(fields, "name", in.Name)
	if in.Color == "" {
		in.Color = models.DefaultCategoryColor
	} else if !hexColor.MatchString(in.Color) {
		fields["color"] = "must be #RRGGBB"
	}
	if err := NewValidationError(fields); err != nil {
		return models.TicketCategory{}, err
	}

	category, err := s.store.TicketCategories.Insert(ctx, func(items []models.TicketCategory) (models.TicketCategory, error) {
		return models.TicketCategory{
			ID:          database.NextID(items, func(c models.TicketCategory) int64 { return c.ID }),
			ServerID:    in.ServerID,
			Name:        in.Name,
			Description: in.Description,
			Emoji:       in.Emoji,
			Color:       in.Color,
			IsActive:    true,
			CreatedAt:   s.timestamp(),
		}, nil
	})
	if err != nil {
		return models.TicketCategory{}, err
	}

	s.publish(realtime.CategoryAdded{Category: category, ServerID: category.ServerID})
	return category, nil
}

// UpdateTicketCategory applies a partial update.
func (s *Service) UpdateTicketCategory(ctx context.Context, id int64, patch CategoryPatch) (models.TicketCategory, error) {
	fields := map[string]string{}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		fields["name"] = "required"
	}
	if patch.Color != nil && !hexColor.MatchString(*patch.Color) {
		fields["color"] = "must be #RRGGBB"
	}
	if err := NewValidationError(fields); err != nil {
		return models.TicketCategory{}, err
	}

	category, ok, err := s.store.TicketCategories.Update(ctx,
		func(c models.TicketCategory) bool { return c.ID == id },
		func(c *models.TicketCategory) error {
			if patch.Name != nil {
				c.Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Description != nil {
				c.Description = patch.Description
			}
			if patch.Emoji != nil {
				c.Emoji = patch.Emoji
			}
			if patch.Color != nil {
				c.Color = *patch.Color
			}
			if patch.IsActive != nil {
				c.IsActive = *patch.IsActive
			}
			return nil
		})
	if err != nil {
		return models.TicketCategory{}, err
	}
	if !ok {
		return models.TicketCategory{}, notFound("category", id)
	}

	s.publish(realtime.CategoryUpdated{Category: category})
	return category, nil
}

// DeleteTicketCategory soft-deletes a category. Tickets that reference it are
// left as they are.
func (s *Service) DeleteTicketCategory(ctx context.Context, id int64) error {
	category, ok, err := s.store.TicketCategories.Update(ctx,
		func(c models.TicketCategory) bool { return c.ID == id },
		func(c *models.TicketCategory) error {
			c.IsActive = false
			return nil
		})
	if err != nil {
		return err
	}
	if !ok {
		return notFound("category", id)
	}

	s.publish(realtime.CategoryDeleted{CategoryID: category.ID, ServerID: category.ServerID})
	return nil
}

// GetTicketCategory returns a category by id, active or not.
func (s *Service) GetTicketCategory(_ context.Context, id int64) (models.TicketCategory, error) {
	c, ok := s.store.TicketCategories.Find(func(c models.TicketCategory) bool { return c.ID == id })
	if !ok {
		return models.TicketCategory{}, notFound("category", id)
	}
	return c, nil
}

// ListTicketCategories returns the active categories of a server by name.
func (s *Service) ListTicketCategories(_ context.Context, serverID string) []models.TicketCategory {
	out := s.store.TicketCategories.Filter(func(c models.TicketCategory) bool {
		return c.IsActive && c.ServerID == serverID
	})
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// ResolveCategory finds an active category by name, ignoring case.
func (s *Service) ResolveCategory(_ context.Context, serverID, name string) (models.TicketCategory, error) {
	name = strings.TrimSpace(name)
	c, ok := s.store.TicketCategories.Find(func(c models.TicketCategory) bool {
		return c.IsActive && c.ServerID == serverID && strings.EqualFold(c.Name, name)
	})
	if !ok {
		return models.TicketCategory{}, fmt.Errorf("%w: category %q", ErrNotFound, name)
	}
	return c, nil
}
