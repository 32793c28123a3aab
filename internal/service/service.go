// Package service holds the moderation and ticket rules. It is the only
// writer of persisted state; both the chat bot and the HTTP API call into it.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/database"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
)

// Publisher receives every state change after it is persisted.
type Publisher interface {
	Publish(ev realtime.Event)
}

// StatsSource supplies the figures the service cannot compute itself.
type StatsSource interface {
	MemberCount(serverID string) int
	Uptime() time.Duration
}

// Service implements the dashboard operations over a Store.
type Service struct {
	store  *database.Store
	events Publisher
	stats  StatsSource
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithStatsSource sets where member counts and uptime come from.
func WithStatsSource(src StatsSource) Option {
	return func(s *Service) { s.stats = src }
}

// New creates a Service. events may be nil.
func New(store *database.Store, events Publisher, opts ...Option) *Service {
	s := &Service{
		store:  store,
		events: events,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying collections for health reporting.
func (s *Service) Store() *database.Store {
	return s.store
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Service) publish(ev realtime.Event) {
	if s.events != nil {
		s.events.Publish(ev)
	}
}

// appendLog records an audit entry.
func (s *Service) appendLog(ctx context.Context, entry models.ModerationLog) (models.ModerationLog, error) {
	return s.store.ModerationLogs.Insert(ctx, func(items []models.ModerationLog) (models.ModerationLog, error) {
		entry.ID = database.NextID(items, func(l models.ModerationLog) int64 { return l.ID })
		entry.CreatedAt = s.timestamp()
		return entry, nil
	})
}

// appendFollowupLog records the audit entry of a mutation that is already
// saved. A failure is logged and does not undo the mutation.
func (s *Service) appendFollowupLog(ctx context.Context, entry models.ModerationLog) {
	if _, err := s.appendLog(ctx, entry); err != nil {
		logger.Error(fmt.Sprintf("No se pudo registrar la acción %s en %s: %v", entry.Action, entry.ServerID, err), "Service")
	}
}

func require(fields map[string]string, name, value string) {
	if strings.TrimSpace(value) == "" {
		fields[name] = "required"
	}
}
