package domain

import (
	"errors"
	"testing"
)

func TestMode_Label(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModePomodoro, "Pomodoro"},
		{ModeShortBreak, "Short Break"},
		{ModeLongBreak, "Long Break"},
		{Mode("nap"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := tt.mode.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"pomodoro", ModePomodoro, false},
		{" Work ", ModePomodoro, false},
		{"short", ModeShortBreak, false},
		{"short_break", ModeShortBreak, false},
		{"LONG", ModeLongBreak, false},
		{"nap", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimerState_Phase(t *testing.T) {
	d := DefaultDurations()

	tests := []struct {
		name  string
		state TimerState
		want  Phase
	}{
		{"fresh", TimerState{Mode: ModePomodoro, RemainingSeconds: 1500}, PhaseIdle},
		{"running", TimerState{Mode: ModePomodoro, RemainingSeconds: 1500, Running: true}, PhaseRunning},
		{"paused", TimerState{Mode: ModePomodoro, RemainingSeconds: 1200}, PhasePaused},
		{"fresh break", TimerState{Mode: ModeShortBreak, RemainingSeconds: 300}, PhaseIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Phase(d); got != tt.want {
				t.Errorf("Phase() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	d := DefaultDurations()

	tests := []struct {
		name      string
		state     TimerState
		wantClock string
		wantPct   float64
		wantLabel string
	}{
		{"start of pomodoro", TimerState{Mode: ModePomodoro, RemainingSeconds: 1500}, "25:00", 0, "Pomodoro"},
		{"ten seconds in", TimerState{Mode: ModePomodoro, RemainingSeconds: 1490}, "24:50", 10.0 / 1500 * 100, "Pomodoro"},
		{"half short break", TimerState{Mode: ModeShortBreak, RemainingSeconds: 150}, "02:30", 50, "Short Break"},
		{"done", TimerState{Mode: ModeLongBreak, RemainingSeconds: 0}, "00:00", 100, "Long Break"},
		{"negative clamps", TimerState{Mode: ModeShortBreak, RemainingSeconds: -5}, "00:00", 100, "Short Break"},
		{"over full clamps", TimerState{Mode: ModeShortBreak, RemainingSeconds: 400}, "06:40", 0, "Short Break"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.state, d)
			if got.MinutesSeconds != tt.wantClock {
				t.Errorf("MinutesSeconds = %q, want %q", got.MinutesSeconds, tt.wantClock)
			}
			if diff := got.ProgressPercent - tt.wantPct; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ProgressPercent = %v, want %v", got.ProgressPercent, tt.wantPct)
			}
			if got.ModeLabel != tt.wantLabel {
				t.Errorf("ModeLabel = %q, want %q", got.ModeLabel, tt.wantLabel)
			}
		})
	}
}

func TestProject_ZeroDuration(t *testing.T) {
	got := Project(TimerState{Mode: ModePomodoro}, Durations{})
	if got.ProgressPercent != 0 {
		t.Errorf("ProgressPercent = %v, want 0 for zero duration", got.ProgressPercent)
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		59:   "00:59",
		60:   "01:00",
		1500: "25:00",
		6000: "100:00",
	}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
