package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

func TestNewMemoryJournal(t *testing.T) {
	journal, err := NewMemoryJournal()
	if err != nil {
		t.Fatalf("NewMemoryJournal() error = %v", err)
	}
	defer func() { _ = journal.Close() }()

	if journal == nil {
		t.Error("NewMemoryJournal() returned nil journal")
	}
}

func TestOpenJournal_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	journal, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("OpenJournal() error = %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening runs the migration against an existing schema.
	journal, err = OpenJournal(path)
	if err != nil {
		t.Fatalf("OpenJournal() second open error = %v", err)
	}
	_ = journal.Close()
}

func TestJournal_AppendAndQuery(t *testing.T) {
	journal, err := NewMemoryJournal()
	if err != nil {
		t.Fatalf("NewMemoryJournal() error = %v", err)
	}
	defer func() { _ = journal.Close() }()

	ctx := context.Background()
	base := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	modes := []domain.Mode{domain.ModePomodoro, domain.ModeShortBreak, domain.ModePomodoro}
	for i, mode := range modes {
		entry := domain.NewSessionEntry(domain.SessionCompleted{
			Mode:        mode,
			Duration:    25 * time.Minute,
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			CompletedAt: base.Add(time.Duration(i)*time.Hour + 25*time.Minute),
		})
		if i == 2 {
			entry.GitBranch = "main"
			entry.GitCommit = "abc1234"
			entry.GitRepo = "xvierd/pomo"
		}
		if err := journal.Append(ctx, entry); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	t.Run("recent newest first", func(t *testing.T) {
		got, err := journal.Recent(ctx, 2)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Recent() returned %d entries, want 2", len(got))
		}
		if got[0].GitBranch != "main" || got[0].GitCommit != "abc1234" || got[0].GitRepo != "xvierd/pomo" {
			t.Errorf("newest entry = %+v", got[0])
		}
		if got[1].Mode != domain.ModeShortBreak {
			t.Errorf("second entry mode = %s, want short_break", got[1].Mode)
		}
		if got[0].Duration != 25*time.Minute {
			t.Errorf("Duration = %v, want 25m", got[0].Duration)
		}
		if !got[0].CompletedAt.Equal(base.Add(2*time.Hour + 25*time.Minute)) {
			t.Errorf("CompletedAt = %v", got[0].CompletedAt)
		}
	})

	t.Run("since filters", func(t *testing.T) {
		got, err := journal.Since(ctx, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("Since() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Since() returned %d entries, want 2", len(got))
		}
	})

	t.Run("zero limit", func(t *testing.T) {
		got, err := journal.Recent(ctx, 0)
		if err != nil {
			t.Fatalf("Recent(0) error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Recent(0) returned %d entries", len(got))
		}
	})
}

func TestJournal_DuplicateID(t *testing.T) {
	journal, err := NewMemoryJournal()
	if err != nil {
		t.Fatalf("NewMemoryJournal() error = %v", err)
	}
	defer func() { _ = journal.Close() }()

	ctx := context.Background()
	entry := domain.SessionEntry{
		ID:          "fixed",
		Mode:        domain.ModePomodoro,
		StartedAt:   time.Now(),
		CompletedAt: time.Now(),
	}

	if err := journal.Append(ctx, entry); err != nil {
		t.Fatalf("first Append() error = %v", err)
	}
	err = journal.Append(ctx, entry)
	if !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Errorf("second Append() error = %v, want ErrDuplicateEntry", err)
	}
}
