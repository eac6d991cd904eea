package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/domain"
	"gopkg.in/yaml.v3"
)

var (
	exportFormat string
	exportData   string
	exportDays   int
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export statistics, sessions or tasks",
	Long: `Export the daily history, the session journal or the task list as
CSV, JSON, YAML or Markdown.`,
	Example: `  pomo export --format csv --days 30
  pomo export --data sessions --format yaml --output sessions.yaml
  pomo export --data tasks --format md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportDays < 1 {
			return fmt.Errorf("--days must be positive, got %d", exportDays)
		}

		table, err := buildExport(cmd.Context(), exportData, exportDays)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		if err := writeExport(w, table, exportFormat); err != nil {
			return err
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(table.rows), exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml or md")
	exportCmd.Flags().StringVar(&exportData, "data", "days", "What to export: days, sessions or tasks")
	exportCmd.Flags().IntVarP(&exportDays, "days", "d", 7, "Number of days for days and sessions")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

type dayRecord struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

type sessionRecord struct {
	Mode        string    `json:"mode" yaml:"mode"`
	Minutes     int       `json:"minutes" yaml:"minutes"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
	GitBranch   string    `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	GitCommit   string    `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GitRepo     string    `json:"git_repository,omitempty" yaml:"git_repository,omitempty"`
}

type taskRecord struct {
	Number    int       `json:"number" yaml:"number"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// exportTable carries the same rows as typed records for JSON and YAML and
// as strings for CSV and Markdown.
type exportTable struct {
	title   string
	header  []string
	rows    [][]string
	records interface{}
}

func buildExport(ctx context.Context, data string, days int) (exportTable, error) {
	switch data {
	case "days":
		return exportDayTable(app.stats.LastDays(days)), nil
	case "sessions":
		if app.journal == nil {
			return exportTable{}, fmt.Errorf("session journal is disabled (set storage.journal = true in the config)")
		}
		entries, err := app.journal.Since(ctx, time.Now().AddDate(0, 0, -days))
		if err != nil {
			return exportTable{}, fmt.Errorf("failed to read session journal: %w", err)
		}
		return exportSessionTable(entries), nil
	case "tasks":
		return exportTaskTable(app.stats.Tasks()), nil
	default:
		return exportTable{}, fmt.Errorf("unknown export data %q (want days, sessions or tasks)", data)
	}
}

func exportDayTable(days []domain.DayCount) exportTable {
	t := exportTable{title: "Pomodoros per day", header: []string{"date", "count"}}
	records := make([]dayRecord, 0, len(days))
	for _, d := range days {
		r := dayRecord{Date: domain.DayKey(d.Date), Count: d.Count}
		records = append(records, r)
		t.rows = append(t.rows, []string{r.Date, strconv.Itoa(r.Count)})
	}
	t.records = records
	return t
}

func exportSessionTable(entries []domain.SessionEntry) exportTable {
	t := exportTable{
		title:  "Sessions",
		header: []string{"completed_at", "mode", "minutes", "git_branch", "git_commit", "git_repository"},
	}
	records := make([]sessionRecord, 0, len(entries))
	for _, e := range entries {
		r := sessionRecord{
			Mode:        string(e.Mode),
			Minutes:     int(e.Duration.Round(time.Minute).Minutes()),
			StartedAt:   e.StartedAt,
			CompletedAt: e.CompletedAt,
			GitBranch:   e.GitBranch,
			GitCommit:   e.GitCommit,
			GitRepo:     e.GitRepo,
		}
		records = append(records, r)
		t.rows = append(t.rows, []string{
			r.CompletedAt.Format(time.RFC3339),
			r.Mode,
			strconv.Itoa(r.Minutes),
			r.GitBranch,
			r.GitCommit,
			r.GitRepo,
		})
	}
	t.records = records
	return t
}

func exportTaskTable(tasks []domain.Task) exportTable {
	t := exportTable{title: "Tasks", header: []string{"number", "text", "completed", "created_at"}}
	records := make([]taskRecord, 0, len(tasks))
	for i, task := range tasks {
		r := taskRecord{
			Number:    i + 1,
			Text:      task.Text,
			Completed: task.Completed,
			CreatedAt: task.CreatedAt.Time,
		}
		records = append(records, r)
		t.rows = append(t.rows, []string{
			strconv.Itoa(r.Number),
			r.Text,
			strconv.FormatBool(r.Completed),
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	t.records = records
	return t
}

func writeExport(w io.Writer, t exportTable, format string) error {
	switch format {
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(t.header); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		if err := cw.WriteAll(t.rows); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(t.records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t.records); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case "md", "markdown":
		return renderMarkdown(w, markdownTable(t))
	default:
		return fmt.Errorf("unknown export format %q (want csv, json, yaml or md)", format)
	}
}

func markdownTable(t exportTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.title)
	if len(t.rows) == 0 {
		b.WriteString("_No data._\n")
		return b.String()
	}
	b.WriteString("| " + strings.Join(t.header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(t.header)) + "\n")
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}
