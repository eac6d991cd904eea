// Package ports defines the interfaces (driven and driving ports)
// for pomo following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

// StatsRepository persists the single statistics record.
// This is a driven port (implemented by adapters).
type StatsRepository interface {
	// Load reads the record. A missing file yields a zero record and a zero
	// modification time. An unreadable file yields *domain.ParseError.
	Load(ctx context.Context) (*domain.Statistics, time.Time, error)

	// Save replaces the stored record atomically.
	Save(ctx context.Context, stats *domain.Statistics) error

	// Quarantine moves a corrupt file aside, restoring the last backup when
	// one is readable, and returns the path the corrupt file was moved to.
	Quarantine(ctx context.Context) (string, error)

	// Path returns the location of the record, for messages.
	Path() string
}

// SessionJournal records every completed countdown.
// This is a driven port (implemented by adapters).
type SessionJournal interface {
	// Append stores a finished session.
	Append(ctx context.Context, entry domain.SessionEntry) error

	// Since returns entries completed at or after since, newest first.
	Since(ctx context.Context, since time.Time) ([]domain.SessionEntry, error)

	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SessionEntry, error)

	// Close releases the underlying handle.
	Close() error
}
