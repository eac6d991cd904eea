package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/pomo/internal/domain"
)

// View renders the model.
func (m Model) View() string {
	sections := []string{m.viewTabs(), ""}

	switch m.view {
	case viewTasks:
		sections = append(sections, m.viewTasks()...)
	case viewStats:
		sections = append(sections, m.viewStats()...)
	default:
		sections = append(sections, m.viewTimer()...)
	}

	sections = append(sections, "")
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork))
		sections = append(sections, errStyle.Render("Error: "+errorText(m.err)))
	} else if m.status != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask)).Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTabs() string {
	active := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(m.themeColor()))
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.view {
			tabs[i] = active.Render(name)
		} else {
			tabs[i] = inactive.Render(name)
		}
	}
	return strings.Join(tabs, "   ")
}

// themeColor is the work or break accent, grey while paused.
func (m Model) themeColor() string {
	if m.engine.Phase() == domain.PhasePaused {
		return m.theme.ColorPaused
	}
	if m.display.Mode.IsBreak() {
		return m.theme.ColorBreak
	}
	return m.theme.ColorWork
}

func (m Model) viewTimer() []string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.themeColor()))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	width := m.width
	if width == 0 {
		width = 80
	}

	var pbar progress.Model
	switch {
	case m.engine.Phase() == domain.PhasePaused:
		pbar = progress.New(progress.WithSolidFill(m.theme.ColorPaused))
	case m.display.Mode.IsBreak():
		pbar = progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	default:
		pbar = progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	}
	pbar.Width = m.progress.Width

	sections := []string{
		titleStyle.Render(fmt.Sprintf("%s %s", m.theme.IconApp, m.display.ModeLabel)),
		renderBigClock(m.display.MinutesSeconds, clockStyle, width),
		"",
		pbar.ViewAs(m.display.ProgressPercent / 100),
		"",
	}

	switch m.engine.Phase() {
	case domain.PhaseRunning:
		sections = append(sections, helpStyle.Render("Running"))
	case domain.PhasePaused:
		sections = append(sections, helpStyle.Render("Paused"))
	default:
		sections = append(sections, helpStyle.Render("Ready"))
	}

	stats := m.stats.Snapshot()
	sections = append(sections, helpStyle.Render(fmt.Sprintf("Today: %d  Total: %d", stats.SessionsToday, stats.TotalPomodoros)))
	return sections
}

func (m Model) viewTasks() []string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	doneStyle := taskStyle.Faint(true).Strikethrough(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.themeColor()))

	title := fmt.Sprintf("%s Tasks", m.theme.IconTask)
	if m.filter != "" {
		title += fmt.Sprintf(" matching %q", m.filter)
	}
	sections := []string{titleStyle.Render(title)}

	rows := m.visibleTasks()
	if len(rows) == 0 {
		empty := "No tasks yet. Press a to add one."
		if m.filter != "" {
			empty = "No matching tasks. Press esc to clear the filter."
		}
		sections = append(sections, taskStyle.Render(empty))
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		style := taskStyle
		if row.Task.Completed {
			style = doneStyle
		}
		lines = append(lines, prefix+style.Render(fmt.Sprintf("%s %s", row.Task.Marker(), row.Task.DisplayText())))
	}
	if len(lines) > 0 {
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	if m.mode != inputNone {
		sections = append(sections, "", m.input.View())
	}
	return sections
}

func (m Model) viewStats() []string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTask))

	stats := m.stats.Snapshot()
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-18s", label)) + valueStyle.Render(value)
	}

	summary := lipgloss.JoinVertical(lipgloss.Left,
		row("Total pomodoros", fmt.Sprint(stats.TotalPomodoros)),
		row("Total focus time", fmt.Sprintf("%d min", stats.TotalMinutes)),
		row("Sessions today", fmt.Sprint(stats.SessionsToday)),
		row("Daily average", domain.FormatAverage(stats.DailyAverage())),
	)

	width := m.width - 4
	if m.width == 0 {
		width = 0
	}

	return []string{
		titleStyle.Render(fmt.Sprintf("%s Statistics", m.theme.IconStats)),
		summary,
		"",
		labelStyle.Render("Last 7 days"),
		RenderHistoryChart(m.stats.LastDays(7), width),
	}
}
