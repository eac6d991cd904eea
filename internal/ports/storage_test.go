package ports

import (
	"context"
	"testing"
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

// Mock implementations for testing interfaces.

type mockStatsRepository struct {
	stats *domain.Statistics
	saved int
}

func (m *mockStatsRepository) Load(ctx context.Context) (*domain.Statistics, time.Time, error) {
	if m.stats == nil {
		return domain.NewStatistics(), time.Time{}, nil
	}
	c := m.stats.Clone()
	return &c, time.Now(), nil
}

func (m *mockStatsRepository) Save(ctx context.Context, stats *domain.Statistics) error {
	c := stats.Clone()
	m.stats = &c
	m.saved++
	return nil
}

func (m *mockStatsRepository) Quarantine(ctx context.Context) (string, error) {
	m.stats = nil
	return "quarantined", nil
}

func (m *mockStatsRepository) Path() string { return "memory" }

type mockJournal struct {
	entries []domain.SessionEntry
}

func (m *mockJournal) Append(ctx context.Context, entry domain.SessionEntry) error {
	m.entries = append([]domain.SessionEntry{entry}, m.entries...)
	return nil
}

func (m *mockJournal) Since(ctx context.Context, since time.Time) ([]domain.SessionEntry, error) {
	var out []domain.SessionEntry
	for _, e := range m.entries {
		if !e.CompletedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockJournal) Recent(ctx context.Context, limit int) ([]domain.SessionEntry, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}

func (m *mockJournal) Close() error { return nil }

var (
	_ StatsRepository = (*mockStatsRepository)(nil)
	_ SessionJournal  = (*mockJournal)(nil)
)

func TestStatsRepositoryInterface(t *testing.T) {
	ctx := context.Background()
	var repo StatsRepository = &mockStatsRepository{}

	stats, modTime, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !modTime.IsZero() {
		t.Errorf("missing record should report zero mod time, got %v", modTime)
	}

	stats.RecordCompletion("2024-05-02", 25)
	if err := repo.Save(ctx, stats); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, _, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.TotalPomodoros != 1 {
		t.Errorf("TotalPomodoros = %d, want 1", loaded.TotalPomodoros)
	}
}

func TestSessionJournalInterface(t *testing.T) {
	ctx := context.Background()
	var journal SessionJournal = &mockJournal{}

	base := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := domain.SessionEntry{
			ID:          string(rune('a' + i)),
			Mode:        domain.ModePomodoro,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := journal.Append(ctx, entry); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recent, err := journal.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "c" {
		t.Errorf("Recent() = %+v", recent)
	}

	since, err := journal.Since(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("Since() error = %v", err)
	}
	if len(since) != 2 {
		t.Errorf("Since() returned %d entries, want 2", len(since))
	}
}
