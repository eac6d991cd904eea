package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress",
	Long:  `Display today's Pomodoro count, the all-time totals, the daily average and open tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.stats.RolloverDayIfNeeded(time.Now())
		stats := app.stats.Snapshot()

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), statusData(stats))
		}
		printStatus(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func openTasks(stats domain.Statistics) int {
	n := 0
	for _, t := range stats.Tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func statusData(stats domain.Statistics) map[string]interface{} {
	return map[string]interface{}{
		"sessions_today":  stats.SessionsToday,
		"total_pomodoros": stats.TotalPomodoros,
		"total_minutes":   stats.TotalMinutes,
		"daily_average":   domain.FormatAverage(stats.DailyAverage()),
		"open_tasks":      openTasks(stats),
		"total_tasks":     len(stats.Tasks),
	}
}

func printStatus(w io.Writer, stats domain.Statistics) {
	fmt.Fprintf(w, "🍅 Today: %d pomodoros\n", stats.SessionsToday)
	fmt.Fprintf(w, "   Total: %d pomodoros (%d min)\n", stats.TotalPomodoros, stats.TotalMinutes)
	fmt.Fprintf(w, "   Daily average: %s\n", domain.FormatAverage(stats.DailyAverage()))
	fmt.Fprintf(w, "   Open tasks: %d of %d\n", openTasks(stats), len(stats.Tasks))
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
