package domain

import (
	"time"

	"github.com/google/uuid"
)

// Durations holds the configured length of each mode.
type Durations struct {
	Pomodoro   time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

// DefaultDurations returns the classic 25/5/15 minute split.
func DefaultDurations() Durations {
	return Durations{
		Pomodoro:   25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
	}
}

// For returns the duration configured for the mode.
func (d Durations) For(mode Mode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return d.ShortBreak
	case ModeLongBreak:
		return d.LongBreak
	default:
		return d.Pomodoro
	}
}

// Seconds returns the whole number of seconds configured for the mode.
func (d Durations) Seconds(mode Mode) int {
	return int(d.For(mode) / time.Second)
}

// PomodoroMinutes is the number of minutes credited per completed Pomodoro.
func (d Durations) PomodoroMinutes() int {
	return int(d.Pomodoro / time.Minute)
}

// DefaultLongBreakEvery is the number of Pomodoros between long breaks.
const DefaultLongBreakEvery = 4

// RotationPolicy decides which mode follows a completed one.
type RotationPolicy struct {
	LongBreakEvery int
}

// DefaultRotation is the standard every-fourth-Pomodoro rotation.
var DefaultRotation = RotationPolicy{LongBreakEvery: DefaultLongBreakEvery}

// Next returns the mode to select after completed finishes. totalPomodoros is
// the cumulative count including the session that just completed.
func (p RotationPolicy) Next(completed Mode, totalPomodoros int) Mode {
	if completed != ModePomodoro {
		return ModePomodoro
	}
	every := p.LongBreakEvery
	if every <= 0 {
		every = DefaultLongBreakEvery
	}
	if totalPomodoros%every == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// NextMode applies DefaultRotation.
func NextMode(completed Mode, totalPomodoros int) Mode {
	return DefaultRotation.Next(completed, totalPomodoros)
}

// SessionCompleted is emitted once each time a countdown reaches zero.
type SessionCompleted struct {
	Mode           Mode
	Next           Mode
	TotalPomodoros int
	Duration       time.Duration
	StartedAt      time.Time
	CompletedAt    time.Time
	// Err is set when recording the completion failed. The rotation still
	// happened; the in-memory statistics hold the increment.
	Err error
}

// SessionEntry is one row of the session journal.
type SessionEntry struct {
	ID          string        `json:"id" yaml:"id"`
	Mode        Mode          `json:"mode" yaml:"mode"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time     `json:"completed_at" yaml:"completed_at"`
	GitBranch   string        `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	GitCommit   string        `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GitRepo     string        `json:"git_repository,omitempty" yaml:"git_repository,omitempty"`
}

// NewSessionEntry builds a journal entry from a completion event.
func NewSessionEntry(ev SessionCompleted) SessionEntry {
	return SessionEntry{
		ID:          uuid.NewString(),
		Mode:        ev.Mode,
		Duration:    ev.Duration,
		StartedAt:   ev.StartedAt,
		CompletedAt: ev.CompletedAt,
	}
}
