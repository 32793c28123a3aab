package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    key TEXT NOT NULL,
    position INTEGER NOT NULL,
    body TEXT NOT NULL,
    PRIMARY KEY (collection, key)
);`

type documentRow struct {
	Key  string `db:"key"`
	Body string `db:"body"`
}

// SQLiteBackend stores every collection in a single documents table.
type SQLiteBackend struct {
	db *sqlx.DB
}

// NewSQLiteBackend opens (or creates) the database file and ensures the schema.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if path == "" {
		path = filepath.Join("data", "nova.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("crear directorio de la base sqlite: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}
	// A single connection serializes writers at the driver level.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	err := b.db.SelectContext(ctx, &rows,
		"SELECT key, body FROM documents WHERE collection = ? ORDER BY position", collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, Document{Key: r.Key, Body: []byte(r.Body)})
	}
	return docs, nil
}

// Save replaces the rows of the collection inside one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, collection string, docs []Document) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", collection); err != nil {
		return fmt.Errorf("failed to clear %s: %w", collection, err)
	}
	for i, d := range docs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO documents (collection, key, position, body) VALUES (?, ?, ?, ?)",
			collection, d.Key, i, string(d.Body))
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", collection, err)
		}
	}
	return tx.Commit()
}

func (b *SQLiteBackend) Status() (string, bool) {
	if err := b.db.Ping(); err != nil {
		return "🔴 | SQLite no disponible", false
	}
	return "🟢 | SQLite", true
}

func (b *SQLiteBackend) Close(context.Context) error {
	return b.db.Close()
}
