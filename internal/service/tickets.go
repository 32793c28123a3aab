package service

import (
	"context"
	"sort"
	"strings"

	"github.com/PancyStudios/DiscordNova/pkg/database"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
)

// TicketInput describes a new ticket.
type TicketInput struct {
	ServerID   string                `json:"serverId"`
	UserID     string                `json:"userId"`
	CategoryID int64                 `json:"categoryId"`
	ChannelID  *string               `json:"channelId"`
	Subject    string                `json:"subject"`
	Priority   models.TicketPriority `json:"priority"`
}

// TicketPatch changes the fields that are set.
type TicketPatch struct {
	Status     *models.TicketStatus   `json:"status"`
	Priority   *models.TicketPriority `json:"priority"`
	AssignedTo *string                `json:"assignedTo"`
	ChannelID  *string                `json:"channelId"`
	Subject    *string                `json:"subject"`
}

// TicketMessageInput is a reply in a ticket conversation.
type TicketMessageInput struct {
	TicketID int64  `json:"ticketId"`
	UserID   string `json:"userId"`
	Content  string `json:"content"`
	IsStaff  bool   `json:"isStaff"`
}

// CreateTicket opens a ticket in an active category of the same server.
func (s *Service) CreateTicket(ctx context.Context, in TicketInput) (models.Ticket, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	fields := map[string]string{}
	require(fields, "serverId", in.ServerID)
	require(fields, "userId", in.UserID)
	require(fields, "subject", in.Subject)
	if in.CategoryID <= 0 {
		fields["categoryId"] = "required"
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	} else if !in.Priority.Valid() {
		fields["priority"] = "invalid"
	}
	if err := NewValidationError(fields); err != nil {
		return models.Ticket{}, err
	}

	// The category is checked under the tickets write lock. A category
	// deactivated after this point keeps the ticket, same as any ticket opened
	// before the deactivation.
	ticket, err := s.store.Tickets.Insert(ctx, func(items []models.Ticket) (models.Ticket, error) {
		category, ok := s.store.TicketCategories.Find(func(c models.TicketCategory) bool { return c.ID == in.CategoryID })
		if !ok || !category.IsActive || category.ServerID != in.ServerID {
			return models.Ticket{}, NewValidationError(map[string]string{"categoryId": "unknown category for this server"})
		}
		now := s.timestamp()
		return models.Ticket{
			ID:         database.NextID(items, func(t models.Ticket) int64 { return t.ID }),
			ServerID:   in.ServerID,
			UserID:     in.UserID,
			CategoryID: in.CategoryID,
			ChannelID:  in.ChannelID,
			Subject:    in.Subject,
			Status:     models.TicketOpen,
			Priority:   in.Priority,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, nil
	})
	if err != nil {
		return models.Ticket{}, err
	}

	s.publish(realtime.TicketCreated{Ticket: ticket, ServerID: ticket.ServerID})
	return ticket, nil
}

// ClaimTicket assigns the ticket to staff. It applies from any status,
// including closed.
func (s *Service) ClaimTicket(ctx context.Context, id int64, assignee string) (models.Ticket, error) {
	if strings.TrimSpace(assignee) == "" {
		return models.Ticket{}, NewValidationError(map[string]string{"assignedTo": "required"})
	}

	ticket, ok, err := s.store.Tickets.Update(ctx,
		func(t models.Ticket) bool { return t.ID == id },
		func(t *models.Ticket) error {
			t.Status = models.TicketAssigned
			t.AssignedTo = models.StringPtr(assignee)
			t.UpdatedAt = s.timestamp()
			return nil
		})
	if err != nil {
		return models.Ticket{}, err
	}
	if !ok {
		return models.Ticket{}, notFound("ticket", id)
	}

	s.publish(realtime.TicketClaimed{Ticket: ticket})
	return ticket, nil
}

// UpdateTicket applies a partial update and always bumps UpdatedAt.
func (s *Service) UpdateTicket(ctx context.Context, id int64, patch TicketPatch) (models.Ticket, error) {
	fields := map[string]string{}
	if patch.Status != nil && !patch.Status.Valid() {
		fields["status"] = "invalid"
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		fields["priority"] = "invalid"
	}
	if patch.Subject != nil && strings.TrimSpace(*patch.Subject) == "" {
		fields["subject"] = "required"
	}
	if err := NewValidationError(fields); err != nil {
		return models.Ticket{}, err
	}

	ticket, ok, err := s.store.Tickets.Update(ctx,
		func(t models.Ticket) bool { return t.ID == id },
		func(t *models.Ticket) error {
			if patch.Status != nil {
				t.Status = *patch.Status
			}
			if patch.Priority != nil {
				t.Priority = *patch.Priority
			}
			if patch.AssignedTo != nil {
				t.AssignedTo = models.StringPtr(*patch.AssignedTo)
			}
			if patch.ChannelID != nil {
				t.ChannelID = models.StringPtr(*patch.ChannelID)
			}
			if patch.Subject != nil {
				t.Subject = strings.TrimSpace(*patch.Subject)
			}
			t.UpdatedAt = s.timestamp()
			return nil
		})
	if err != nil {
		return models.Ticket{}, err
	}
	if !ok {
		return models.Ticket{}, notFound("ticket", id)
	}

	s.publish(realtime.TicketUpdated{Ticket: ticket})
	return ticket, nil
}

// CloseTicket sets the status to closed.
func (s *Service) CloseTicket(ctx context.Context, id int64) (models.Ticket, error) {
	closed := models.TicketClosed
	return s.UpdateTicket(ctx, id, TicketPatch{Status: &closed})
}

// GetTicket returns a ticket by id.
func (s *Service) GetTicket(_ context.Context, id int64) (models.Ticket, error) {
	t, ok := s.store.Tickets.Find(func(t models.Ticket) bool { return t.ID == id })
	if !ok {
		return models.Ticket{}, notFound("ticket", id)
	}
	return t, nil
}

// ListTickets returns every ticket of a server, newest first.
func (s *Service) ListTickets(_ context.Context, serverID string) []models.Ticket {
	return newestTickets(s.store.Tickets.Filter(func(t models.Ticket) bool { return t.ServerID == serverID }))
}

// ListActiveTickets returns the open tickets of a server, newest first.
func (s *Service) ListActiveTickets(_ context.Context, serverID string) []models.Ticket {
	return newestTickets(s.store.Tickets.Filter(func(t models.Ticket) bool {
		return t.ServerID == serverID && t.Status == models.TicketOpen
	}))
}

func newestTickets(out []models.Ticket) []models.Ticket {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// PostTicketMessage appends a message to an existing ticket.
func (s *Service) PostTicketMessage(ctx context.Context, in TicketMessageInput) (models.TicketMessage, error) {
	in.Content = strings.TrimSpace(in.Content)
	fields := map[string]string{}
	require(fields, "content", in.Content)
	require(fields, "userId", in.UserID)
	if err := NewValidationError(fields); err != nil {
		return models.TicketMessage{}, err
	}
	if _, err := s.GetTicket(ctx, in.TicketID); err != nil {
		return models.TicketMessage{}, err
	}

	return s.store.TicketMessages.Insert(ctx, func(items []models.TicketMessage) (models.TicketMessage, error) {
		return models.TicketMessage{
			ID:        database.NextID(items, func(m models.TicketMessage) int64 { return m.ID }),
			TicketID:  in.TicketID,
			UserID:    in.UserID,
			Content:   in.Content,
			IsStaff:   in.IsStaff,
			CreatedAt: s.timestamp(),
		}, nil
	})
}

// TicketMessages returns the conversation of a ticket, oldest first.
func (s *Service) TicketMessages(_ context.Context, ticketID int64) []models.TicketMessage {
	out := s.store.TicketMessages.Filter(func(m models.TicketMessage) bool { return m.TicketID == ticketID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
