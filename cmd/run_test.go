package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xvierd/pomo/internal/domain"
)

func TestStatusLine(t *testing.T) {
	running := domain.Display{
		Mode:            domain.ModePomodoro,
		MinutesSeconds:  "12:30",
		ProgressPercent: 50,
		ModeLabel:       "Pomodoro",
		Running:         true,
	}
	paused := domain.Display{
		Mode:           domain.ModeShortBreak,
		MinutesSeconds: "05:00",
		ModeLabel:      "Short Break",
	}

	tests := []struct {
		name  string
		d     domain.Display
		width int
		want  string
	}{
		{
			name: "running with bar",
			d:    running,
			want: "🍅 Pomodoro 12:30 [" + strings.Repeat("█", 10) + strings.Repeat("·", 10) + "]  50%",
		},
		{
			name:  "narrow terminal drops the bar",
			d:     running,
			width: 30,
			want:  "🍅 Pomodoro 12:30  50%",
		},
		{
			name:  "paused break",
			d:     paused,
			width: 30,
			want:  "☕ Short Break 05:00 (paused)   0%",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusLine(tt.d, tt.width); got != tt.want {
				t.Errorf("statusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineObserver(t *testing.T) {
	d := domain.Display{Mode: domain.ModePomodoro, MinutesSeconds: "00:02", ModeLabel: "Pomodoro", Running: true}

	t.Run("plain output", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLineObserver(&buf, false, 0)

		l.OnTick(d)
		l.OnTick(d)
		d2 := d
		d2.MinutesSeconds = "00:01"
		l.OnTick(d2)

		if n := strings.Count(buf.String(), "\n"); n != 2 {
			t.Errorf("got %d lines, want 2 (duplicates skipped):\n%s", n, buf.String())
		}

		l.OnSessionCompleted(domain.SessionCompleted{Mode: domain.ModePomodoro, TotalPomodoros: 1})
		l.OnSessionCompleted(domain.SessionCompleted{Mode: domain.ModeShortBreak})
		d3 := d
		d3.MinutesSeconds = "05:00"
		l.OnTick(d3)

		ev := <-l.completed
		if ev.TotalPomodoros != 1 {
			t.Errorf("first completion should be delivered, got %+v", ev)
		}
		if strings.Contains(buf.String(), "05:00") {
			t.Error("ticks after completion should not be printed")
		}
	})

	t.Run("in place", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLineObserver(&buf, true, 0)
		l.OnTick(d)
		if !strings.HasPrefix(buf.String(), "\r\033[K") {
			t.Errorf("expected a line redraw, got %q", buf.String())
		}
		l.finish()
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("finish should end the redrawn line")
		}
	})
}
