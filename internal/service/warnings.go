package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/DiscordNova/pkg/database"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
)

// IssueWarningInput describes a new warning.
type IssueWarningInput struct {
	UserID      string `json:"userId"`
	ServerID    string `json:"serverId"`
	ModeratorID string `json:"moderatorId"`
	Reason      string `json:"reason"`
}

// RevokeWarningInput identifies the warning to revoke. When ServerID is set
// the warning must belong to that server.
type RevokeWarningInput struct {
	WarningID   int64
	ModeratorID string
	ServerID    string
}

// IssueWarning records a warning numbered after the user's active warnings in
// the server. There is no upper bound on the number.
func (s *Service) IssueWarning(ctx context.Context, in IssueWarningInput) (models.Warning, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	fields := map[string]string{}
	require(fields, "userId", in.UserID)
	require(fields, "serverId", in.ServerID)
	require(fields, "moderatorId", in.ModeratorID)
	require(fields, "reason", in.Reason)
	if err := NewValidationError(fields); err != nil {
		return models.Warning{}, err
	}

	warning, err := s.store.Warnings.Insert(ctx, func(items []models.Warning) (models.Warning, error) {
		active := 0
		for _, w := range items {
			if w.IsActive && w.UserID == in.UserID && w.ServerID == in.ServerID {
				active++
			}
		}
		return models.Warning{
			ID:            database.NextID(items, func(w models.Warning) int64 { return w.ID }),
			UserID:        in.UserID,
			ServerID:      in.ServerID,
			ModeratorID:   in.ModeratorID,
			Reason:        in.Reason,
			WarningNumber: active + 1,
			IsActive:      true,
			CreatedAt:     s.timestamp(),
		}, nil
	})
	if err != nil {
		return models.Warning{}, err
	}

	s.appendFollowupLog(ctx, models.ModerationLog{
		ServerID:    warning.ServerID,
		ModeratorID: warning.ModeratorID,
		TargetID:    models.StringPtr(warning.UserID),
		Action:      models.ActionWarn,
		Reason:      models.StringPtr(warning.Reason),
		Details: map[string]any{
			"warningNumber": warning.WarningNumber,
			"warningId":     warning.ID,
		},
	})

	logger.Info(fmt.Sprintf("Advertencia #%d para %s en %s", warning.WarningNumber, warning.UserID, warning.ServerID), "Warnings")
	s.publish(realtime.WarningAdded{Warning: warning, ServerID: warning.ServerID})
	return warning, nil
}

// RevokeWarning deactivates a warning. Revoking an inactive warning succeeds
// without logging or publishing anything.
func (s *Service) RevokeWarning(ctx context.Context, in RevokeWarningInput) (models.Warning, error) {
	if in.WarningID <= 0 {
		return models.Warning{}, NewValidationError(map[string]string{"warningId": "invalid"})
	}

	var (
		changed    bool
		wrongGuild bool
	)
	warning, found, err := s.store.Warnings.Update(ctx,
		func(w models.Warning) bool { return w.ID == in.WarningID },
		func(w *models.Warning) error {
			if in.ServerID != "" && w.ServerID != in.ServerID {
				wrongGuild = true
				return ErrNotFound
			}
			if w.IsActive {
				w.IsActive = false
				changed = true
			}
			return nil
		})
	if wrongGuild || (err == nil && !found) {
		return models.Warning{}, notFound("warning", in.WarningID)
	}
	if err != nil {
		return models.Warning{}, err
	}
	if !changed {
		return warning, nil
	}

	s.appendFollowupLog(ctx, models.ModerationLog{
		ServerID:    warning.ServerID,
		ModeratorID: in.ModeratorID,
		TargetID:    models.StringPtr(warning.UserID),
		Action:      models.ActionRemoveWarning,
		Reason:      models.StringPtr("Advertencia eliminada"),
		Details: map[string]any{
			"warningId":      warning.ID,
			"originalReason": warning.Reason,
		},
	})

	s.publish(realtime.WarningRemoved{Warning: warning})
	return warning, nil
}

// GetWarning returns a warning by id.
func (s *Service) GetWarning(_ context.Context, id int64) (models.Warning, error) {
	w, ok := s.store.Warnings.Find(func(w models.Warning) bool { return w.ID == id })
	if !ok {
		return models.Warning{}, notFound("warning", id)
	}
	return w, nil
}

// ListActiveWarnings returns the user's active warnings, oldest first.
func (s *Service) ListActiveWarnings(_ context.Context, userID, serverID string) []models.Warning {
	out := s.store.Warnings.Filter(func(w models.Warning) bool {
		return w.IsActive && w.UserID == userID && w.ServerID == serverID
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// CountActiveWarnings returns how many active warnings the user has.
func (s *Service) CountActiveWarnings(ctx context.Context, userID, serverID string) int {
	return len(s.ListActiveWarnings(ctx, userID, serverID))
}

// RecentWarnings returns the newest warnings of a server, active or not.
// limit <= 0 returns all.
func (s *Service) RecentWarnings(_ context.Context, serverID string, limit int) []models.Warning {
	out := s.store.Warnings.Filter(func(w models.Warning) bool { return w.ServerID == serverID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
