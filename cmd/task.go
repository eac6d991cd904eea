package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/domain"
)

var taskFind string

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Manage the task list",
	Long:    `Add, list, complete and remove tasks. Tasks are numbered from 1 in list order.`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.stats.AddTask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
		if task == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Nothing added: task text is empty.")
			return nil
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), task)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added task %d: %s\n", len(app.stats.Tasks()), task.Text)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := app.stats.FindTasks(taskFind)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), taskRows(rows))
		}
		printTasks(cmd.OutOrStdout(), rows, taskFind != "")
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:     "done <number>",
	Aliases: []string{"complete"},
	Short:   "Mark a task as done",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}
		if err := app.stats.CompleteTask(cmd.Context(), index); err != nil {
			return fmt.Errorf("failed to complete task %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed task %d: %s\n", index+1, app.stats.Tasks()[index].Text)
		return nil
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm <number>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}
		tasks := app.stats.Tasks()
		if index >= len(tasks) {
			return fmt.Errorf("failed to remove task %s: %w", args[0], domain.ErrIndexOutOfRange)
		}
		text := tasks[index].Text
		if err := app.stats.RemoveTask(cmd.Context(), index); err != nil {
			return fmt.Errorf("failed to remove task %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Removed task %d: %s\n", index+1, text)
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringVarP(&taskFind, "find", "f", "", "Only show tasks matching this fuzzy query")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRemoveCmd)
	rootCmd.AddCommand(taskCmd)
}

// parseTaskNumber converts a 1-based task number to a list index.
func parseTaskNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q: must be a positive integer", s)
	}
	return n - 1, nil
}

func taskRows(rows []domain.IndexedTask) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]interface{}{
			"number":     r.Index + 1,
			"text":       r.Task.Text,
			"completed":  r.Task.Completed,
			"created_at": r.Task.CreatedAt.Time,
		})
	}
	return out
}

func printTasks(w io.Writer, rows []domain.IndexedTask, filtered bool) {
	if len(rows) == 0 {
		if filtered {
			fmt.Fprintln(w, "No matching tasks.")
		} else {
			fmt.Fprintln(w, "No tasks. Add one with: pomo task add <text>")
		}
		return
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%3d. %s %s\n", r.Index+1, r.Task.Marker(), r.Task.DisplayText())
	}
}
