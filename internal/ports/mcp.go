package ports

import (
	"context"
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests and blocks until the transport closes.
	Start(ctx context.Context) error
}

// MCPStateProvider provides statistics and tasks to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// Snapshot returns a copy of the statistics record.
	Snapshot(ctx context.Context) (domain.Statistics, error)

	// LastDays returns the per-day counts ending today.
	LastDays(ctx context.Context, n int) ([]domain.DayCount, error)

	// AddTask appends a task; a nil task means the text was blank.
	AddTask(ctx context.Context, text string) (*domain.Task, error)

	// CompleteTask marks the task at index as done.
	CompleteTask(ctx context.Context, index int) error

	// RemoveTask deletes the task at index.
	RemoveTask(ctx context.Context, index int) error

	// FindTasks fuzzy-matches task text.
	FindTasks(ctx context.Context, query string) ([]domain.IndexedTask, error)

	// History returns journal entries completed since the given time.
	History(ctx context.Context, since time.Time) ([]domain.SessionEntry, error)
}
