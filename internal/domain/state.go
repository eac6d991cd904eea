package domain

import (
	"fmt"
	"strings"
)

// Mode is the kind of interval the timer is counting down.
type Mode string

const (
	ModePomodoro   Mode = "pomodoro"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModePomodoro, ModeShortBreak, ModeLongBreak}

// Label returns the human-readable name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModePomodoro:
		return "Pomodoro"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak reports whether the mode is one of the break modes.
func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// ParseMode accepts the canonical names plus a few short aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pomodoro", "work", "focus", "p":
		return ModePomodoro, nil
	case "short_break", "short", "break", "s":
		return ModeShortBreak, nil
	case "long_break", "long", "l":
		return ModeLongBreak, nil
	}
	return "", fmt.Errorf("%w: %q (use pomodoro, short or long)", ErrInvalidMode, s)
}

// Phase is the observable lifecycle position of the timer.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
)

// TimerState is the mutable state owned by the timer engine.
// RemainingSeconds never goes below zero and Mode only changes while the
// countdown is stopped.
type TimerState struct {
	Mode             Mode
	RemainingSeconds int
	Running          bool
}

// Phase derives the lifecycle phase from the state and the mode durations.
func (s TimerState) Phase(d Durations) Phase {
	switch {
	case s.Running:
		return PhaseRunning
	case s.RemainingSeconds == d.Seconds(s.Mode):
		return PhaseIdle
	default:
		return PhasePaused
	}
}
