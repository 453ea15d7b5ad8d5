// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface. Every record is a JSON document in one table, keyed by
// collection and ID.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/mealbook/internal/storage"
)

// Collection names.
const (
	collectionMeals    = "meals"
	collectionWeights  = "weight_entries"
	collectionSettings = "settings"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db       *sql.DB
	meals    *Collection
	weights  *Collection
	settings *Collection
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// DSN pragmas apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		db:       db,
		meals:    NewCollection(db, collectionMeals),
		weights:  NewCollection(db, collectionWeights),
		settings: NewCollection(db, collectionSettings),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// persistErr marks err as a storage I/O failure unless it already carries
// a storage sentinel.
func persistErr(op string, err error) error {
	if isStorageErr(err) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, storage.ErrPersistence, err)
}
