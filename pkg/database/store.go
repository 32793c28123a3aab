package database

import (
	"context"
	"strconv"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/models"
)

// Store groups the dashboard collections over one backend.
type Store struct {
	backend Backend

	Users            *Collection[models.User]
	Servers          *Collection[models.Server]
	Warnings         *Collection[models.Warning]
	TicketCategories *Collection[models.TicketCategory]
	Tickets          *Collection[models.Ticket]
	TicketMessages   *Collection[models.TicketMessage]
	ModerationLogs   *Collection[models.ModerationLog]
}

func intKey(id int64) string { return strconv.FormatInt(id, 10) }

// NewStore creates the collections without loading them.
func NewStore(backend Backend) *Store {
	return &Store{
		backend:          backend,
		Users:            NewCollection(UsersCollection, backend, func(u models.User) string { return u.ID }),
		Servers:          NewCollection(ServersCollection, backend, func(s models.Server) string { return s.ID }),
		Warnings:         NewCollection(WarningsCollection, backend, func(w models.Warning) string { return intKey(w.ID) }),
		TicketCategories: NewCollection(TicketCategoriesCollection, backend, func(c models.TicketCategory) string { return intKey(c.ID) }),
		Tickets:          NewCollection(TicketsCollection, backend, func(t models.Ticket) string { return intKey(t.ID) }),
		TicketMessages:   NewCollection(TicketMessagesCollection, backend, func(m models.TicketMessage) string { return intKey(m.ID) }),
		ModerationLogs:   NewCollection(ModerationLogsCollection, backend, func(l models.ModerationLog) string { return intKey(l.ID) }),
	}
}

// Open creates a store and loads every collection from the backend.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	s := NewStore(backend)
	loaders := []interface {
		Load(context.Context) error
	}{s.Users, s.Servers, s.Warnings, s.TicketCategories, s.Tickets, s.TicketMessages, s.ModerationLogs}

	for _, l := range loaders {
		if err := l.Load(ctx); err != nil {
			return nil, err
		}
	}
	logger.Success("Colecciones cargadas", "Store")
	return s, nil
}

// Status reports the backend health.
func (s *Store) Status() (string, bool) {
	return s.backend.Status()
}

// Close releases the backend.
func (s *Store) Close(ctx context.Context) error {
	return s.backend.Close(ctx)
}
