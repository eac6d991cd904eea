package domain

import (
	"fmt"
	"time"
)

// DayLayout is the key format used in the daily history map.
const DayLayout = "2006-01-02"

// DayKey returns the daily history key for t in its own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// Statistics is the persisted record. Field names in JSON are part of the
// on-disk format and must not change.
type Statistics struct {
	TotalPomodoros int            `json:"total_pomodoros"`
	TotalMinutes   int            `json:"total_time"`
	SessionsToday  int            `json:"sessions_today"`
	DailyHistory   map[string]int `json:"daily_history"`
	Tasks          []Task         `json:"tasks"`
}

// NewStatistics returns the zero record used when no file exists yet.
func NewStatistics() *Statistics {
	return &Statistics{
		DailyHistory: map[string]int{},
		Tasks:        []Task{},
	}
}

// Normalize replaces nil collections left by a sparse file.
func (s *Statistics) Normalize() {
	if s.DailyHistory == nil {
		s.DailyHistory = map[string]int{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *Statistics) Clone() Statistics {
	out := *s
	out.DailyHistory = make(map[string]int, len(s.DailyHistory))
	for k, v := range s.DailyHistory {
		out.DailyHistory[k] = v
	}
	out.Tasks = append([]Task{}, s.Tasks...)
	return out
}

// RecordCompletion credits one finished Pomodoro to day and returns the new
// cumulative total.
func (s *Statistics) RecordCompletion(day string, minutes int) int {
	s.Normalize()
	s.TotalPomodoros++
	s.TotalMinutes += minutes
	s.SessionsToday++
	s.DailyHistory[day]++
	return s.TotalPomodoros
}

// Consistent reports whether the total matches the sum of the daily history.
func (s *Statistics) Consistent() bool {
	sum := 0
	for _, n := range s.DailyHistory {
		sum += n
	}
	return sum == s.TotalPomodoros
}

// DailyAverage is the mean number of Pomodoros over the days present in the
// history. It is zero when the history is empty.
func (s *Statistics) DailyAverage() float64 {
	if len(s.DailyHistory) == 0 {
		return 0
	}
	sum := 0
	for _, n := range s.DailyHistory {
		sum += n
	}
	return float64(sum) / float64(len(s.DailyHistory))
}

// FormatAverage renders an average with one decimal, or "0" when empty.
func FormatAverage(avg float64) string {
	if avg == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", avg)
}

// DayCount is one bar of the history chart.
type DayCount struct {
	Date  time.Time
	Count int
}

// Label returns the short DD/MM label used under chart bars.
func (d DayCount) Label() string {
	return d.Date.Format("02/01")
}

// LastDays returns the n days ending at today, oldest first. Days missing from
// the history count as zero.
func (s *Statistics) LastDays(today time.Time, n int) []DayCount {
	days := make([]DayCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		days = append(days, DayCount{Date: day, Count: s.DailyHistory[DayKey(day)]})
	}
	return days
}

// AddTask appends a task. Blank text is ignored and reported with false.
func (s *Statistics) AddTask(text string, now time.Time) (Task, bool) {
	task, ok := NewTask(text, now)
	if !ok {
		return Task{}, false
	}
	s.Tasks = append(s.Tasks, task)
	return task, true
}

// CompleteTask marks the task at index as done.
func (s *Statistics) CompleteTask(index int) error {
	if index < 0 || index >= len(s.Tasks) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.Tasks))
	}
	s.Tasks[index].Completed = true
	return nil
}

// RemoveTask deletes the task at index, shifting later tasks down.
func (s *Statistics) RemoveTask(index int) error {
	if index < 0 || index >= len(s.Tasks) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.Tasks))
	}
	s.Tasks = append(s.Tasks[:index], s.Tasks[index+1:]...)
	return nil
}

// ParseError reports a statistics file that exists but cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid statistics file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
