// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// StatsService owns the statistics record and is its only writer.
type StatsService struct {
	mu      sync.Mutex
	repo    ports.StatsRepository
	stats   *domain.Statistics
	lastDay string
	minutes int
	now     func() time.Time
}

// NewStatsService creates a service over repo. pomodoroMinutes is credited to
// the total time for every completed Pomodoro.
func NewStatsService(repo ports.StatsRepository, pomodoroMinutes int) *StatsService {
	return &StatsService{
		repo:    repo,
		stats:   domain.NewStatistics(),
		minutes: pomodoroMinutes,
		now:     time.Now,
	}
}

// SetNowFunc overrides the clock. Used by tests.
func (s *StatsService) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Load reads the record from the repository. The day the file was last
// written becomes the last-known day, so a record left over from an earlier
// day starts with sessions_today reset. A *domain.ParseError is returned
// unchanged when the file is corrupt.
func (s *StatsService) Load(ctx context.Context) error {
	stats, modTime, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.stats = stats
	s.lastDay = domain.DayKey(now)
	if !modTime.IsZero() {
		s.lastDay = domain.DayKey(modTime.In(now.Location()))
	}
	s.rolloverLocked(now)
	return nil
}

// Recover moves a corrupt record aside and loads whatever remains, which is
// either the restored backup or a zero record. It returns the quarantine path.
func (s *StatsService) Recover(ctx context.Context) (string, error) {
	moved, err := s.repo.Quarantine(ctx)
	if err != nil {
		return "", err
	}
	if err := s.Load(ctx); err != nil {
		return moved, fmt.Errorf("failed to reload statistics: %w", err)
	}
	return moved, nil
}

// Save persists the current record.
func (s *StatsService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Close runs the rollover check and saves. Call it when the app exits.
func (s *StatsService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rolloverLocked(s.now())
	return s.saveLocked(ctx)
}

// RecordPomodoroCompletion credits one finished Pomodoro to today and saves.
// It returns the new cumulative total. On a save error the increment stays in
// memory and is written by the next successful save.
func (s *StatsService) RecordPomodoroCompletion(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.rolloverLocked(now)
	total := s.stats.RecordCompletion(domain.DayKey(now), s.minutes)
	if err := s.saveLocked(ctx); err != nil {
		return total, err
	}
	return total, nil
}

// RolloverDayIfNeeded resets sessions_today when today differs from the
// last-known day. It reports whether a reset happened.
func (s *StatsService) RolloverDayIfNeeded(today time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rolloverLocked(today)
}

// TotalPomodoros returns the cumulative count.
func (s *StatsService) TotalPomodoros() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.TotalPomodoros
}

// Snapshot returns a deep copy of the record.
func (s *StatsService) Snapshot() domain.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Clone()
}

// LastDays returns per-day counts for the n days ending today.
func (s *StatsService) LastDays(n int) []domain.DayCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.LastDays(s.now(), n)
}

// DailyAverage returns the mean Pomodoros per recorded day.
func (s *StatsService) DailyAverage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.DailyAverage()
}

// Path returns where the record lives.
func (s *StatsService) Path() string {
	return s.repo.Path()
}

func (s *StatsService) rolloverLocked(now time.Time) bool {
	day := domain.DayKey(now)
	if s.lastDay == "" {
		s.lastDay = day
		return false
	}
	if day == s.lastDay {
		return false
	}
	s.stats.SessionsToday = 0
	s.lastDay = day
	return true
}

func (s *StatsService) saveLocked(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.stats); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}
