package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo/internal/adapters/storage"
	"github.com/xvierd/pomo/internal/domain"
)

// setupTestStore returns a JSON store in a temp dir and a service over it.
func setupTestStore(t *testing.T) (*storage.JSONStore, *StatsService) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "pomodoro_stats.json"))
	return store, NewStatsService(store, 25)
}

// fixedClock is a settable clock safe for concurrent use.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type failingRepo struct {
	*storage.JSONStore
	fail bool
}

func (r *failingRepo) Save(ctx context.Context, stats *domain.Statistics) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.JSONStore.Save(ctx, stats)
}

func TestStatsService_LoadMissingFile(t *testing.T) {
	_, svc := setupTestStore(t)

	require.NoError(t, svc.Load(context.Background()))

	snap := svc.Snapshot()
	assert.Equal(t, 0, snap.TotalPomodoros)
	assert.Equal(t, 0, snap.SessionsToday)
	assert.Empty(t, snap.DailyHistory)
	assert.Empty(t, snap.Tasks)
}

func TestStatsService_RecordPomodoroCompletion(t *testing.T) {
	ctx := context.Background()
	store, svc := setupTestStore(t)
	clock := newFixedClock(time.Date(2024, 5, 2, 10, 0, 0, 0, time.Local))
	svc.SetNowFunc(clock.Now)
	require.NoError(t, svc.Load(ctx))

	for i := 1; i <= 3; i++ {
		total, err := svc.RecordPomodoroCompletion(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, total)
	}

	snap := svc.Snapshot()
	assert.Equal(t, 3, snap.TotalPomodoros)
	assert.Equal(t, 75, snap.TotalMinutes)
	assert.Equal(t, 3, snap.SessionsToday)
	assert.Equal(t, map[string]int{"2024-05-02": 3}, snap.DailyHistory)
	assert.True(t, snap.Consistent())

	// Persisted, not just in memory.
	stored, _, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TotalPomodoros)
	assert.True(t, stored.Consistent())
}

func TestStatsService_FourPomodorosOnOneDay(t *testing.T) {
	ctx := context.Background()
	store, svc := setupTestStore(t)
	clock := newFixedClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local))
	svc.SetNowFunc(clock.Now)
	require.NoError(t, svc.Load(ctx))

	e, _, obs := newTestEngine(t, domain.DefaultDurations(), svc)
	for i := 0; i < 4; i++ {
		require.True(t, e.SetMode(domain.ModePomodoro))
		e.mu.Lock()
		e.state.RemainingSeconds = 1
		e.mu.Unlock()
		require.True(t, e.Start(ctx))
		e.Tick()
	}

	snap := svc.Snapshot()
	assert.Equal(t, 4, snap.TotalPomodoros)
	assert.Equal(t, 100, snap.TotalMinutes)
	assert.Equal(t, 4, snap.SessionsToday)
	assert.Equal(t, map[string]int{"2024-01-01": 4}, snap.DailyHistory)

	completions := obs.completions()
	require.Len(t, completions, 4)
	for _, ev := range completions[:3] {
		assert.Equal(t, domain.ModeShortBreak, ev.Next)
	}
	assert.Equal(t, domain.ModeLongBreak, completions[3].Next)
	assert.Equal(t, domain.ModeLongBreak, e.State().Mode)

	stored, _, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.TotalMinutes)
	assert.Equal(t, 4, stored.DailyHistory["2024-01-01"])
}

func TestStatsService_RolloverBeforeCompletion(t *testing.T) {
	ctx := context.Background()
	_, svc := setupTestStore(t)
	clock := newFixedClock(time.Date(2024, 5, 2, 23, 50, 0, 0, time.Local))
	svc.SetNowFunc(clock.Now)
	require.NoError(t, svc.Load(ctx))

	_, err := svc.RecordPomodoroCompletion(ctx)
	require.NoError(t, err)
	_, err = svc.RecordPomodoroCompletion(ctx)
	require.NoError(t, err)

	clock.Set(time.Date(2024, 5, 3, 0, 20, 0, 0, time.Local))
	_, err = svc.RecordPomodoroCompletion(ctx)
	require.NoError(t, err)

	snap := svc.Snapshot()
	assert.Equal(t, 1, snap.SessionsToday)
	assert.Equal(t, 3, snap.TotalPomodoros)
	assert.Equal(t, 2, snap.DailyHistory["2024-05-02"])
	assert.Equal(t, 1, snap.DailyHistory["2024-05-03"])
}

func TestStatsService_RolloverDayIfNeeded(t *testing.T) {
	ctx := context.Background()
	_, svc := setupTestStore(t)
	day := time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local)
	svc.SetNowFunc(func() time.Time { return day })
	require.NoError(t, svc.Load(ctx))

	_, err := svc.RecordPomodoroCompletion(ctx)
	require.NoError(t, err)

	assert.False(t, svc.RolloverDayIfNeeded(day.Add(time.Hour)))
	assert.Equal(t, 1, svc.Snapshot().SessionsToday)

	assert.True(t, svc.RolloverDayIfNeeded(day.AddDate(0, 0, 1)))
	assert.Equal(t, 0, svc.Snapshot().SessionsToday)
	assert.Equal(t, 1, svc.Snapshot().TotalPomodoros)

	assert.False(t, svc.RolloverDayIfNeeded(day.AddDate(0, 0, 1)))
}

func TestStatsService_LoadResetsStaleSessionsToday(t *testing.T) {
	ctx := context.Background()
	store, svc := setupTestStore(t)

	stale := domain.NewStatistics()
	stale.RecordCompletion("2024-05-01", 25)
	stale.RecordCompletion("2024-05-01", 25)
	require.NoError(t, store.Save(ctx, stale))

	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, os.Chtimes(store.Path(), yesterday, yesterday))

	require.NoError(t, svc.Load(ctx))
	snap := svc.Snapshot()
	assert.Equal(t, 0, snap.SessionsToday)
	assert.Equal(t, 2, snap.TotalPomodoros)
}

func TestStatsService_LoadKeepsTodaysSessions(t *testing.T) {
	ctx := context.Background()
	store, svc := setupTestStore(t)

	current := domain.NewStatistics()
	current.RecordCompletion(domain.DayKey(time.Now()), 25)
	require.NoError(t, store.Save(ctx, current))

	require.NoError(t, svc.Load(ctx))
	assert.Equal(t, 1, svc.Snapshot().SessionsToday)
}

func TestStatsService_LoadCorruptAndRecover(t *testing.T) {
	ctx := context.Background()
	store, svc := setupTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"total_pomodoros": `), 0o644))

	err := svc.Load(ctx)
	var pe *domain.ParseError
	require.True(t, errors.As(err, &pe), "want ParseError, got %v", err)

	moved, err := svc.Recover(ctx)
	require.NoError(t, err)
	assert.FileExists(t, moved)
	assert.Equal(t, 0, svc.Snapshot().TotalPomodoros)
}

func TestStatsService_SaveFailureKeepsIncrement(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{JSONStore: storage.NewJSONStore(filepath.Join(t.TempDir(), "s.json"))}
	svc := NewStatsService(repo, 25)
	require.NoError(t, svc.Load(ctx))

	repo.fail = true
	total, err := svc.RecordPomodoroCompletion(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save statistics")
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, svc.TotalPomodoros())

	repo.fail = false
	require.NoError(t, svc.Save(ctx))
	stored, _, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalPomodoros)
}

func TestStatsService_CloseSaves(t *testing.T) {
	ctx := context.Background()
	store, svc := setupTestStore(t)
	require.NoError(t, svc.Load(ctx))

	_, err := svc.AddTask(ctx, "close me")
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx))

	stored, _, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored.Tasks, 1)
}

func TestStatsService_LastDaysAndAverage(t *testing.T) {
	ctx := context.Background()
	_, svc := setupTestStore(t)
	clock := newFixedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local))
	svc.SetNowFunc(clock.Now)
	require.NoError(t, svc.Load(ctx))

	_, _ = svc.RecordPomodoroCompletion(ctx)
	clock.Set(time.Date(2024, 5, 3, 9, 0, 0, 0, time.Local))
	_, _ = svc.RecordPomodoroCompletion(ctx)
	_, _ = svc.RecordPomodoroCompletion(ctx)

	days := svc.LastDays(7)
	require.Len(t, days, 7)
	assert.Equal(t, "03/05", days[6].Label())
	assert.Equal(t, 2, days[6].Count)
	assert.Equal(t, 0, days[5].Count)
	assert.Equal(t, 1, days[4].Count)
	assert.InDelta(t, 1.5, svc.DailyAverage(), 1e-9)
}
