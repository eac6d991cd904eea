package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/adapters/notification"
	"github.com/xvierd/pomo/internal/domain"
)

var runCmd = &cobra.Command{
	Use:   "run [mode]",
	Short: "Run one countdown without the fullscreen interface",
	Long: `Run a single countdown in the current terminal, printing the remaining
time every second. mode is pomodoro (default), short or long.

Ctrl+C pauses the countdown, saves statistics and exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := domain.ModePomodoro
		if len(args) == 1 {
			m, err := domain.ParseMode(args[0])
			if err != nil {
				return err
			}
			mode = m
		}
		return runPlain(cmd, mode)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPlain(cmd *cobra.Command, mode domain.Mode) error {
	ctx, stop := setupSignalHandler(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()
	inPlace, width := terminalInfo(out)

	line := newLineObserver(out, inPlace, width)
	engine, stopEngine := newEngine(stderrWarn(cmd))
	engine.SetMode(mode)
	engine.Subscribe(line)
	engine.Start(ctx)

	var ev domain.SessionCompleted
	completed := false
	select {
	case ev = <-line.completed:
		completed = true
	case <-ctx.Done():
	}
	stopEngine()
	line.finish()

	if completed {
		title, message := notification.CompletionMessage(ev)
		fmt.Fprintf(out, "%s %s\n", title, message)
		if ev.Err != nil {
			warnf(cmd, "%v", ev.Err)
		}
	} else {
		fmt.Fprintf(out, "Paused at %s.\n", engine.Display().MinutesSeconds)
	}

	if err := app.stats.Close(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}

// terminalInfo reports whether out is a terminal that can redraw a line in
// place, and its width.
func terminalInfo(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return false, 0
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil {
		return true, 80
	}
	return true, width
}

// lineObserver prints one status line per tick. On a terminal it redraws the
// same line; otherwise each update is a new line.
type lineObserver struct {
	out       io.Writer
	inPlace   bool
	width     int
	completed chan domain.SessionCompleted
	last      string
	dirty     bool
	done      bool
}

func newLineObserver(out io.Writer, inPlace bool, width int) *lineObserver {
	return &lineObserver{
		out:       out,
		inPlace:   inPlace,
		width:     width,
		completed: make(chan domain.SessionCompleted, 1),
	}
}

// OnTick implements ports.TimerObserver.
func (l *lineObserver) OnTick(d domain.Display) {
	if l.done {
		return
	}
	text := statusLine(d, l.width)
	if text == l.last {
		return
	}
	l.last = text
	if l.inPlace {
		fmt.Fprintf(l.out, "\r\033[K%s", text)
		l.dirty = true
		return
	}
	fmt.Fprintln(l.out, text)
}

// OnSessionCompleted implements ports.TimerObserver. Only the first
// completion is delivered; the runner exits after it.
func (l *lineObserver) OnSessionCompleted(ev domain.SessionCompleted) {
	l.done = true
	select {
	case l.completed <- ev:
	default:
	}
}

func (l *lineObserver) finish() {
	if l.dirty {
		fmt.Fprintln(l.out)
		l.dirty = false
	}
}

// statusLine renders "🍅 Pomodoro 24:59 [████····] 4%". The bar is omitted
// when width is too small.
func statusLine(d domain.Display, width int) string {
	icon := "🍅"
	if d.Mode.IsBreak() {
		icon = "☕"
	}
	head := fmt.Sprintf("%s %s %s", icon, d.ModeLabel, d.MinutesSeconds)
	if !d.Running {
		head += " (paused)"
	}
	tail := fmt.Sprintf(" %3.0f%%", d.ProgressPercent)

	barWidth := 20
	if width > 0 && width < len(head)+barWidth+12 {
		return head + tail
	}

	filled := int(d.ProgressPercent / 100 * float64(barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled)
	return head + " [" + bar + "]" + tail
}
