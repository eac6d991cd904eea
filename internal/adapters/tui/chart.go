package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/pomo/internal/domain"
)

const (
	chartHeight = 6
	columnWidth = 5 // width of a DD/MM label
	columnGap   = 1
)

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0605E"))

// RenderHistoryChart draws one column per day, oldest on the left, with the
// count above each bar and the DD/MM label below it. When width is too small
// for columns it falls back to one horizontal bar per line.
func RenderHistoryChart(days []domain.DayCount, width int) string {
	if len(days) == 0 {
		return ""
	}
	if width > 0 && width < len(days)*(columnWidth+columnGap) {
		return renderCompactChart(days, width)
	}

	maxCount := 0
	for _, d := range days {
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}

	heights := make([]int, len(days))
	for i, d := range days {
		heights[i] = barHeight(d.Count, maxCount, chartHeight)
	}

	var b strings.Builder
	gap := strings.Repeat(" ", columnGap)

	counts := make([]string, len(days))
	for i, d := range days {
		cell := ""
		if d.Count > 0 {
			cell = fmt.Sprint(d.Count)
		}
		counts[i] = center(cell, columnWidth)
	}
	b.WriteString(strings.TrimRight(strings.Join(counts, gap), " "))
	b.WriteByte('\n')

	bar := barStyle.Render(" ███ ")
	blank := strings.Repeat(" ", columnWidth)
	for level := chartHeight; level >= 1; level-- {
		cells := make([]string, len(days))
		for i := range days {
			if heights[i] >= level {
				cells[i] = bar
			} else {
				cells[i] = blank
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, gap), " "))
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat("─", len(days)*(columnWidth+columnGap)-columnGap))
	b.WriteByte('\n')

	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Label()
	}
	b.WriteString(strings.Join(labels, gap))

	return b.String()
}

func renderCompactChart(days []domain.DayCount, width int) string {
	maxCount := 0
	for _, d := range days {
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}

	// "DD/MM " + bar + " N"
	room := width - columnWidth - 5
	if room < 1 {
		room = 1
	}

	lines := make([]string, len(days))
	for i, d := range days {
		n := barHeight(d.Count, maxCount, room)
		line := d.Label() + " "
		if n > 0 {
			line += barStyle.Render(strings.Repeat("█", n)) + fmt.Sprintf(" %d", d.Count)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// barHeight scales count to at most limit cells. Any non-zero count gets at
// least one cell.
func barHeight(count, maxCount, limit int) int {
	if count <= 0 || maxCount <= 0 {
		return 0
	}
	h := (count*limit + maxCount - 1) / maxCount
	if h > limit {
		h = limit
	}
	return h
}

func center(s string, width int) string {
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
