package service

import (
	"context"
	"sort"
	"strings"

	"github.com/PancyStudios/DiscordNova/pkg/models"
)

// ModerationInput records an action taken outside the warning flow.
type ModerationInput struct {
	ServerID    string
	ModeratorID string
	TargetID    string
	Action      string
	Reason      string
	Details     map[string]any
}

// RecordModerationAction appends kick, ban and mute actions to the audit log.
// The entry is the only record of the action, so a save failure is returned.
func (s *Service) RecordModerationAction(ctx context.Context, in ModerationInput) error {
	fields := map[string]string{}
	require(fields, "serverId", in.ServerID)
	require(fields, "moderatorId", in.ModeratorID)
	switch in.Action {
	case models.ActionKick, models.ActionBan, models.ActionMute:
	default:
		fields["action"] = "invalid"
	}
	if err := NewValidationError(fields); err != nil {
		return err
	}

	_, err := s.appendLog(ctx, models.ModerationLog{
		ServerID:    in.ServerID,
		ModeratorID: in.ModeratorID,
		TargetID:    models.StringPtr(in.TargetID),
		Action:      in.Action,
		Reason:      models.StringPtr(strings.TrimSpace(in.Reason)),
		Details:     in.Details,
	})
	return err
}

// ModerationLogs returns the newest audit entries of a server. limit <= 0
// returns all.
func (s *Service) ModerationLogs(_ context.Context, serverID string, limit int) []models.ModerationLog {
	out := s.store.ModerationLogs.Filter(func(l models.ModerationLog) bool { return l.ServerID == serverID })
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
