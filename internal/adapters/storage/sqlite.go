package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/pomo/internal/ports"
	"modernc.org/sqlite"
)

// Journal implements ports.SessionJournal using SQLite.
type Journal struct {
	db *sql.DB
}

// Ensure Journal implements ports.SessionJournal.
var _ ports.SessionJournal = (*Journal)(nil)

// OpenJournal opens (creating if needed) the session journal at dbPath.
func OpenJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and matches the
	// single-process usage.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	j := &Journal{db: db}
	if err := j.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return j, nil
}

// NewMemoryJournal creates an in-memory journal for testing.
func NewMemoryJournal() (*Journal, error) {
	return OpenJournal(":memory:")
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Migrate creates the database schema.
func (j *Journal) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		started_at_ms INTEGER NOT NULL,
		completed_at_ms INTEGER NOT NULL,
		git_branch TEXT NOT NULL DEFAULT '',
		git_commit TEXT NOT NULL DEFAULT '',
		git_repository TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_completed ON sessions(completed_at_ms);
	CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);
	`

	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// isUniqueConstraintError checks if an error is a primary key or unique
// constraint violation.
func isUniqueConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == 2067 || code == 1555 // SQLITE_CONSTRAINT_UNIQUE, SQLITE_CONSTRAINT_PRIMARYKEY
}
