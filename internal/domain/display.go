package domain

import "fmt"

// Display is the presentation-ready projection of a timer state.
type Display struct {
	Mode            Mode
	MinutesSeconds  string
	ProgressPercent float64
	ModeLabel       string
	Running         bool
}

// Project converts a timer state into the values a surface renders.
func Project(state TimerState, d Durations) Display {
	remaining := state.RemainingSeconds
	if remaining < 0 {
		remaining = 0
	}

	total := d.Seconds(state.Mode)
	var progress float64
	if total > 0 {
		progress = float64(total-remaining) / float64(total) * 100
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return Display{
		Mode:            state.Mode,
		MinutesSeconds:  FormatClock(remaining),
		ProgressPercent: progress,
		ModeLabel:       state.Mode.Label(),
		Running:         state.Running,
	}
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes grow past two
// digits for long durations.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
