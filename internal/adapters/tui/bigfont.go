package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 5

// glyphs holds a block rendering for each clock character. Digits are four
// cells wide except 1; the colon is one cell.
var glyphs = map[rune][glyphRows]string{
	'0': {"████", "█  █", "█  █", "█  █", "████"},
	'1': {" █ ", "██ ", " █ ", " █ ", "███"},
	'2': {"████", "   █", "████", "█   ", "████"},
	'3': {"████", "   █", "████", "   █", "████"},
	'4': {"█  █", "█  █", "████", "   █", "   █"},
	'5': {"████", "█   ", "████", "   █", "████"},
	'6': {"████", "█   ", "████", "█  █", "████"},
	'7': {"████", "   █", "  █ ", " █  ", " █  "},
	'8': {"████", "█  █", "████", "█  █", "████"},
	'9': {"████", "█  █", "████", "   █", "████"},
	':': {" ", "█", " ", "█", " "},
}

// bigClockWidth returns the rendered width of clock in block glyphs.
func bigClockWidth(clock string) int {
	w := 0
	n := 0
	for _, ch := range clock {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		w += lipgloss.Width(g[0])
		n++
	}
	if n > 1 {
		w += n - 1
	}
	return w
}

// renderBigClock draws an MM:SS string in block glyphs. Narrow terminals get
// the plain string in the same style.
func renderBigClock(clock string, style lipgloss.Style, width int) string {
	if width < bigClockWidth(clock)+4 {
		return style.Render(clock)
	}

	var rows [glyphRows][]string
	for _, ch := range clock {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], g[i])
		}
	}

	lines := make([]string, glyphRows)
	for i, parts := range rows {
		lines[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
