package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

const selectSessions = `
	SELECT id, mode, duration_ms, started_at_ms, completed_at_ms, git_branch, git_commit, git_repository
	FROM sessions
`

// Append persists a finished session.
func (j *Journal) Append(ctx context.Context, entry domain.SessionEntry) error {
	query := `
		INSERT INTO sessions (
			id, mode, duration_ms, started_at_ms, completed_at_ms,
			git_branch, git_commit, git_repository
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := j.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.Mode),
		entry.Duration.Milliseconds(),
		entry.StartedAt.UnixMilli(),
		entry.CompletedAt.UnixMilli(),
		entry.GitBranch,
		entry.GitCommit,
		entry.GitRepo,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEntry, entry.ID)
		}
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Since retrieves sessions completed at or after since, newest first.
func (j *Journal) Since(ctx context.Context, since time.Time) ([]domain.SessionEntry, error) {
	query := selectSessions + `
		WHERE completed_at_ms >= ?
		ORDER BY completed_at_ms DESC
	`

	rows, err := j.db.QueryContext(ctx, query, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// Recent retrieves the newest limit sessions.
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.SessionEntry, error) {
	if limit <= 0 {
		return []domain.SessionEntry{}, nil
	}

	query := selectSessions + `
		ORDER BY completed_at_ms DESC
		LIMIT ?
	`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]domain.SessionEntry, error) {
	entries := []domain.SessionEntry{}
	for rows.Next() {
		var (
			e                          domain.SessionEntry
			mode                       string
			durationMs, startMs, endMs int64
		)
		if err := rows.Scan(&e.ID, &mode, &durationMs, &startMs, &endMs, &e.GitBranch, &e.GitCommit, &e.GitRepo); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		e.Mode = domain.Mode(mode)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.StartedAt = time.UnixMilli(startMs)
		e.CompletedAt = time.UnixMilli(endMs)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return entries, nil
}
