// Package storage persists fetched fundamentals in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotConfigured indicates the store was used without an open database.
var ErrNotConfigured = errors.New("storage: database not configured")

// Kind identifies one of the fundamentals tables. The values double as CLI
// subcommand names.
type Kind string

const (
	KindQuote        Kind = "quote"
	KindBalanceSheet Kind = "balance-sheet"
	KindIncome       Kind = "income"
)

// ParseKind validates a table name from user input.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindQuote, KindBalanceSheet, KindIncome:
		return Kind(value), nil
	}
	return "", fmt.Errorf("unknown table %q (expected quote, balance-sheet, or income)", value)
}

// Store wraps the SQLite handle holding the fundamentals tables.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and connects to the database file at path. The
// store is single-writer; one connection keeps SQLite lock contention out
// of the picture.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database.path is required")
	}

	if !strings.HasPrefix(path, "file:") {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		path = "file:" + abs
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}

func (s *Store) getDB() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	return s.db, nil
}
