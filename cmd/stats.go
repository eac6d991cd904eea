package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/adapters/tui"
	"github.com/xvierd/pomo/internal/domain"
)

var (
	statsDays     int
	statsMarkdown bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of Pomodoro statistics",
	Long:  `Display totals, the daily average and a bar chart of the last days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsDays < 1 {
			return fmt.Errorf("--days must be positive, got %d", statsDays)
		}

		app.stats.RolloverDayIfNeeded(time.Now())
		stats := app.stats.Snapshot()
		days := app.stats.LastDays(statsDays)
		out := cmd.OutOrStdout()

		switch {
		case jsonOutput:
			data := statusData(stats)
			history := make([]map[string]interface{}, 0, len(days))
			for _, d := range days {
				history = append(history, map[string]interface{}{
					"date":  domain.DayKey(d.Date),
					"count": d.Count,
				})
			}
			data["days"] = history
			return writeJSON(out, data)
		case statsMarkdown:
			return renderStatsMarkdown(out, stats, days)
		}

		_, width := terminalInfo(out)
		renderDashboard(out, stats, days, width)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 7, "Number of days in the chart")
	statsCmd.Flags().BoolVar(&statsMarkdown, "markdown", false, "Render the report as Markdown")
	rootCmd.AddCommand(statsCmd)
}

func renderDashboard(w io.Writer, stats domain.Statistics, days []domain.DayCount, width int) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0605E"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4A261"))

	fmt.Fprintf(w, "\n  %s\n", titleStyle.Render("🍅 Pomodoro statistics"))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  Total: %s pomodoros, %s\n",
		valueStyle.Render(fmt.Sprint(stats.TotalPomodoros)),
		valueStyle.Render(fmt.Sprintf("%d min", stats.TotalMinutes)),
	)
	fmt.Fprintf(w, "  Today: %s   Daily average: %s\n\n",
		valueStyle.Render(fmt.Sprint(stats.SessionsToday)),
		valueStyle.Render(domain.FormatAverage(stats.DailyAverage())),
	)

	fmt.Fprintf(w, "  %s\n", dimStyle.Render(fmt.Sprintf("Last %d days", len(days))))
	chartWidth := 0
	if width > 0 {
		chartWidth = width - 2
	}
	for _, line := range strings.Split(tui.RenderHistoryChart(days, chartWidth), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
}

// statsMarkdownReport builds the Markdown form of the dashboard.
func statsMarkdownReport(stats domain.Statistics, days []domain.DayCount) string {
	var b strings.Builder
	b.WriteString("# 🍅 Pomodoro statistics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total pomodoros | %d |\n", stats.TotalPomodoros)
	fmt.Fprintf(&b, "| Total focus time | %d min |\n", stats.TotalMinutes)
	fmt.Fprintf(&b, "| Sessions today | %d |\n", stats.SessionsToday)
	fmt.Fprintf(&b, "| Daily average | %s |\n\n", domain.FormatAverage(stats.DailyAverage()))

	fmt.Fprintf(&b, "## Last %d days\n\n", len(days))
	b.WriteString("| Day | Pomodoros |\n|---|---|\n")
	for _, d := range days {
		fmt.Fprintf(&b, "| %s | %d |\n", d.Label(), d.Count)
	}
	return b.String()
}

func renderStatsMarkdown(w io.Writer, stats domain.Statistics, days []domain.DayCount) error {
	return renderMarkdown(w, statsMarkdownReport(stats, days))
}

// renderMarkdown styles md with glamour when writing to a terminal and
// prints it raw otherwise.
func renderMarkdown(w io.Writer, md string) error {
	if f, ok := w.(*os.File); !ok || !isTerminal(f) {
		_, err := io.WriteString(w, md)
		return err
	}
	rendered, err := glamour.Render(md, "dark")
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func isTerminal(f *os.File) bool {
	inPlace, _ := terminalInfo(f)
	return inPlace
}
