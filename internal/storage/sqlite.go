package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteBackend stores payloads in a single `state` table.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (creating if needed) the database at path, applies
// the connection pragmas and ensures the schema exists.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		key        TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create state table: %w", err)
	}

	return &SQLiteBackend{db: db, path: path}, nil
}

// Get returns the payload stored under key, or ErrNotFound.
func (s *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: select %s: %w", key, err)
	}
	return payload, nil
}

// Put upserts the payload under key.
func (s *SQLiteBackend) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storage: upsert %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteBackend) Path() string { return s.path }
