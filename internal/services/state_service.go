package services

import (
	"context"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	stats   *StatsService
	journal ports.SessionJournal
}

// Ensure StateService implements ports.MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)

// NewStateService creates a new state service. journal may be nil when the
// session journal is disabled.
func NewStateService(stats *StatsService, journal ports.SessionJournal) *StateService {
	return &StateService{stats: stats, journal: journal}
}

// Snapshot implements ports.MCPStateProvider.
func (s *StateService) Snapshot(ctx context.Context) (domain.Statistics, error) {
	s.stats.RolloverDayIfNeeded(time.Now())
	return s.stats.Snapshot(), nil
}

// LastDays implements ports.MCPStateProvider.
func (s *StateService) LastDays(ctx context.Context, n int) ([]domain.DayCount, error) {
	if n <= 0 {
		n = 7
	}
	return s.stats.LastDays(n), nil
}

// AddTask implements ports.MCPStateProvider.
func (s *StateService) AddTask(ctx context.Context, text string) (*domain.Task, error) {
	return s.stats.AddTask(ctx, text)
}

// CompleteTask implements ports.MCPStateProvider.
func (s *StateService) CompleteTask(ctx context.Context, index int) error {
	return s.stats.CompleteTask(ctx, index)
}

// RemoveTask implements ports.MCPStateProvider.
func (s *StateService) RemoveTask(ctx context.Context, index int) error {
	return s.stats.RemoveTask(ctx, index)
}

// FindTasks implements ports.MCPStateProvider.
func (s *StateService) FindTasks(ctx context.Context, query string) ([]domain.IndexedTask, error) {
	return s.stats.FindTasks(query), nil
}

// History implements ports.MCPStateProvider.
func (s *StateService) History(ctx context.Context, since time.Time) ([]domain.SessionEntry, error) {
	if s.journal == nil {
		return []domain.SessionEntry{}, nil
	}
	return s.journal.Since(ctx, since)
}
