// Package store provides the SQLite-backed expense ledger: expenses,
// budgets and notifications.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"

	_ "modernc.org/sqlite" // register sqlite driver
)

const pragmas = "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"

// Ledger is the persistent store. It is safe for concurrent use.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at the given path and applies
// pending migrations.
func Open(dbPath string) (*Ledger, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, apperr.File("open ledger", fmt.Errorf("creating ledger dir: %w", err))
	}

	dsn := dbPath + pragmas
	if err := runMigrations(dsn); err != nil {
		return nil, apperr.Database("open ledger", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperr.Database("open ledger", fmt.Errorf("opening ledger db: %w", err))
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperr.Database("open ledger", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.Local()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// notFound maps sql.ErrNoRows to a not-found error and anything else to a
// database error.
func notFound(op, what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(op, what)
	}
	return apperr.Database(op, err)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
