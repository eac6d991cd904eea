package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/pomo/internal/domain"
)

// AddTask appends a task and saves. Blank text is ignored: the returned task
// is nil and so is the error.
func (s *StatsService) AddTask(ctx context.Context, text string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.stats.AddTask(text, s.now())
	if !ok {
		return nil, nil
	}
	if err := s.saveLocked(ctx); err != nil {
		return &task, err
	}
	return &task, nil
}

// CompleteTask marks the task at index as done and saves.
func (s *StatsService) CompleteTask(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stats.CompleteTask(index); err != nil {
		return err
	}
	return s.saveLocked(ctx)
}

// RemoveTask deletes the task at index and saves.
func (s *StatsService) RemoveTask(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stats.RemoveTask(index); err != nil {
		return err
	}
	return s.saveLocked(ctx)
}

// Tasks returns a copy of the task list in insertion order.
func (s *StatsService) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Task{}, s.stats.Tasks...)
}

// FindTasks fuzzy-matches query against task text, best match first.
// An empty query returns every task.
func (s *StatsService) FindTasks(query string) []domain.IndexedTask {
	tasks := s.Tasks()

	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]domain.IndexedTask, len(tasks))
		for i, t := range tasks {
			out[i] = domain.IndexedTask{Index: i, Task: t}
		}
		return out
	}

	texts := make([]string, len(tasks))
	for i, t := range tasks {
		texts[i] = t.Text
	}

	matches := fuzzy.Find(query, texts)
	out := make([]domain.IndexedTask, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.IndexedTask{Index: m.Index, Task: tasks[m.Index]})
	}
	return out
}
