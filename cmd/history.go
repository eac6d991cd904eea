package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/domain"
)

var (
	historyDays  int
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished sessions from the journal",
	Long: `List finished countdowns recorded in the session journal, newest first.
Use --days to show every session of the last N days instead of the most recent ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.journal == nil {
			return fmt.Errorf("session journal is disabled (set storage.journal = true in the config)")
		}

		var (
			entries []domain.SessionEntry
			err     error
		)
		if historyDays > 0 {
			entries, err = app.journal.Since(cmd.Context(), time.Now().AddDate(0, 0, -historyDays))
		} else {
			entries, err = app.journal.Recent(cmd.Context(), historyLimit)
		}
		if err != nil {
			return fmt.Errorf("failed to read session journal: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 0, "Show sessions from the last N days")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of recent sessions")
	rootCmd.AddCommand(historyCmd)
}

func printHistory(w io.Writer, entries []domain.SessionEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return
	}
	for _, e := range entries {
		icon := "🍅"
		if e.Mode.IsBreak() {
			icon = "☕"
		}
		line := fmt.Sprintf("%s %s  %-11s %s",
			icon,
			e.CompletedAt.Local().Format("2006-01-02 15:04"),
			e.Mode.Label(),
			formatMinutes(e.Duration),
		)
		switch {
		case e.GitRepo != "" && e.GitBranch != "":
			line += fmt.Sprintf("  (%s %s@%s)", e.GitRepo, e.GitBranch, e.GitCommit)
		case e.GitBranch != "":
			line += fmt.Sprintf("  (%s@%s)", e.GitBranch, e.GitCommit)
		}
		fmt.Fprintln(w, line)
	}
}

// formatMinutes renders a duration as "25m", "1h" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	total := int(d.Round(time.Minute).Minutes())
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
