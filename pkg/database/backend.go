// Package database persists the dashboard collections. Each collection lives in
// memory as the authoritative copy and every write is flushed as a full
// snapshot to a Backend (JSON files, SQLite or MongoDB).
package database

import (
	"context"
	"errors"
	"fmt"
)

// ErrPersistence wraps every failure to write a snapshot to the backend.
var ErrPersistence = errors.New("persistence failure")

// Collection names as stored by every backend.
const (
	UsersCollection            = "users"
	ServersCollection          = "servers"
	WarningsCollection         = "warnings"
	TicketCategoriesCollection = "ticket-categories"
	TicketsCollection          = "tickets"
	TicketMessagesCollection   = "ticket-messages"
	ModerationLogsCollection   = "moderation-logs"
)

// Document is one encoded record. Key identifies the record inside its
// collection, Body holds the JSON encoding.
type Document struct {
	Key  string
	Body []byte
}

// Backend stores full snapshots of named collections.
type Backend interface {
	// Load returns the documents of a collection in stored order. A collection
	// that was never saved loads as empty.
	Load(ctx context.Context, collection string) ([]Document, error)
	// Save atomically replaces the stored content of a collection.
	Save(ctx context.Context, collection string, docs []Document) error
	// Status returns a human readable state and whether the backend is healthy.
	Status() (string, bool)
	Close(ctx context.Context) error
}

// Drivers accepted by OpenBackend
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// BackendOptions selects and configures a backend.
type BackendOptions struct {
	Driver     string
	DataDir    string
	SQLitePath string
	MongoURL   string
	MongoDB    string
}

// OpenBackend creates the backend named by opts.Driver.
func OpenBackend(ctx context.Context, opts BackendOptions) (Backend, error) {
	switch opts.Driver {
	case "", DriverJSON:
		return NewFileBackend(opts.DataDir)
	case DriverSQLite:
		return NewSQLiteBackend(ctx, opts.SQLitePath)
	case DriverMongo:
		db := NewMongoBackend()
		// The initial load needs the server; later outages switch to
		// offline mode instead.
		if err := db.Connect(opts.MongoURL, opts.MongoDB); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", opts.Driver)
	}
}
