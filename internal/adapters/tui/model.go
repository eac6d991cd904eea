// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
)

// Engine is the timer surface the model drives.
type Engine interface {
	Display() domain.Display
	Phase() domain.Phase
	SetMode(mode domain.Mode) bool
	Start(ctx context.Context) bool
	Pause() bool
	Reset()
}

// Stats is the statistics and task surface the model reads and edits.
type Stats interface {
	Snapshot() domain.Statistics
	LastDays(n int) []domain.DayCount
	AddTask(ctx context.Context, text string) (*domain.Task, error)
	CompleteTask(ctx context.Context, index int) error
	RemoveTask(ctx context.Context, index int) error
	FindTasks(query string) []domain.IndexedTask
}

type view int

const (
	viewTimer view = iota
	viewTasks
	viewStats
)

var viewNames = []string{"Timer", "Tasks", "Stats"}

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputFind
)

// Model represents the TUI state.
type Model struct {
	ctx    context.Context
	engine Engine
	stats  Stats
	bridge *Bridge
	theme  config.ThemeConfig

	keys     keyMap
	help     help.Model
	progress progress.Model
	input    textinput.Model

	display domain.Display
	view    view
	cursor  int
	mode    inputMode
	filter  string

	status string
	err    error

	width  int
	height int
}

// NewModel creates a new TUI model. bridge may be nil when the caller does
// not subscribe the model to the engine.
func NewModel(ctx context.Context, engine Engine, stats Stats, bridge *Bridge, theme *config.ThemeConfig) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		ctx:      ctx,
		engine:   engine,
		stats:    stats,
		bridge:   bridge,
		theme:    resolveTheme(theme),
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		input:    ti,
		display:  engine.Display(),
	}
}

// resolveTheme fills empty fields with defaults.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	d := config.DefaultThemeConfig()
	if theme == nil {
		return d
	}
	t := *theme
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&t.ColorWork, d.ColorWork)
	fill(&t.ColorBreak, d.ColorBreak)
	fill(&t.ColorPaused, d.ColorPaused)
	fill(&t.ColorTitle, d.ColorTitle)
	fill(&t.ColorTask, d.ColorTask)
	fill(&t.ColorHelp, d.ColorHelp)
	fill(&t.WorkGradientStart, d.WorkGradientStart)
	fill(&t.WorkGradientEnd, d.WorkGradientEnd)
	fill(&t.BreakGradientStart, d.BreakGradientStart)
	fill(&t.BreakGradientEnd, d.BreakGradientEnd)
	fill(&t.IconApp, d.IconApp)
	fill(&t.IconTask, d.IconTask)
	fill(&t.IconStats, d.IconStats)
	return t
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(m.windowTitle()), waitForEvent(m.bridge))
}

// windowTitle mirrors the countdown into the terminal title.
func (m Model) windowTitle() string {
	return fmt.Sprintf("%s Pomodoro - %s", m.theme.IconApp, m.display.MinutesSeconds)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-4, 60), 10)
		m.help.Width = msg.Width
		return m, nil

	case displayMsg:
		m.display = domain.Display(msg)
		return m, tea.Batch(tea.SetWindowTitle(m.windowTitle()), waitForEvent(m.bridge))

	case completedMsg:
		ev := domain.SessionCompleted(msg)
		m.status = completionStatus(ev)
		if ev.Err != nil {
			m.err = ev.Err
		}
		return m, waitForEvent(m.bridge)

	case warningMsg:
		m.err = msg.err
		return m, waitForEvent(m.bridge)

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextView):
		m.view = (m.view + 1) % view(len(viewNames))
		m.keys.view = m.view
		m.status = ""
		return m, nil
	}

	switch m.view {
	case viewTimer:
		return m.updateTimerKeys(msg)
	case viewTasks:
		return m.updateTaskKeys(msg)
	}
	return m, nil
}

func (m Model) updateTimerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if m.engine.Phase() == domain.PhaseRunning {
			m.engine.Pause()
		} else {
			m.engine.Start(m.ctx)
		}
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.Pomodoro):
		m.switchMode(domain.ModePomodoro)
	case key.Matches(msg, m.keys.Short):
		m.switchMode(domain.ModeShortBreak)
	case key.Matches(msg, m.keys.Long):
		m.switchMode(domain.ModeLongBreak)
	default:
		return m, nil
	}

	m.display = m.engine.Display()
	return m, tea.SetWindowTitle(m.windowTitle())
}

func (m *Model) switchMode(mode domain.Mode) {
	if !m.engine.SetMode(mode) {
		m.status = "Pause the timer before switching mode"
		return
	}
	m.status = ""
}

func (m Model) updateTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.visibleTasks()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		return m.beginInput(inputAdd, "New task: ", "")
	case key.Matches(msg, m.keys.Find):
		return m.beginInput(inputFind, "Find: ", m.filter)
	case key.Matches(msg, m.keys.Complete):
		if len(rows) > 0 {
			m.err = m.stats.CompleteTask(m.ctx, rows[m.cursor].Index)
		}
	case key.Matches(msg, m.keys.Remove):
		if len(rows) > 0 {
			m.err = m.stats.RemoveTask(m.ctx, rows[m.cursor].Index)
			m.clampCursor()
		}
	case msg.Type == tea.KeyEsc && m.filter != "":
		m.filter = ""
		m.cursor = 0
	}
	return m, nil
}

func (m Model) beginInput(mode inputMode, prompt, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		switch m.mode {
		case inputAdd:
			if _, err := m.stats.AddTask(m.ctx, value); err != nil {
				m.err = err
			}
			m.filter = ""
			m.cursor = max(len(m.visibleTasks())-1, 0)
		case inputFind:
			m.filter = strings.TrimSpace(value)
			m.cursor = 0
		}
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) visibleTasks() []domain.IndexedTask {
	return m.stats.FindTasks(m.filter)
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func completionStatus(ev domain.SessionCompleted) string {
	if ev.Mode == domain.ModePomodoro {
		return fmt.Sprintf("Pomodoro complete! Total: %d. Next: %s", ev.TotalPomodoros, ev.Next.Label())
	}
	return fmt.Sprintf("%s complete! Next: %s", ev.Mode.Label(), ev.Next.Label())
}

// errorText hides the wrapped index detail behind a friendlier message.
func errorText(err error) string {
	if errors.Is(err, domain.ErrIndexOutOfRange) {
		return "No task at that position"
	}
	return err.Error()
}
