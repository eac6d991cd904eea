// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	now           func() time.Time
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
		now:           time.Now,
	}

	s.server = server.NewMCPServer(
		"pomo",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_statistics",
			mcp.WithDescription("Get pomodoro totals, today's count, the daily average and the last seven days"),
		),
		s.handleGetStatistics,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List tasks in insertion order, optionally fuzzy-filtered"),
			mcp.WithString(
				"query",
				mcp.Description("Optional fuzzy filter on task text"),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"add_task",
			mcp.WithDescription("Append a task to the list"),
			mcp.WithString(
				"text",
				mcp.Required(),
				mcp.Description("The task text; blank text is rejected"),
			),
		),
		s.handleAddTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"complete_task",
			mcp.WithDescription("Mark a task as done by its 0-based index"),
			mcp.WithNumber(
				"index",
				mcp.Required(),
				mcp.Description("0-based position in list_tasks output"),
			),
		),
		s.handleCompleteTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"remove_task",
			mcp.WithDescription("Delete a task by its 0-based index"),
			mcp.WithNumber(
				"index",
				mcp.Required(),
				mcp.Description("0-based position in list_tasks output"),
			),
		),
		s.handleRemoveTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_history",
			mcp.WithDescription("Get journaled sessions completed in the last N days"),
			mcp.WithNumber(
				"days",
				mcp.Description("Look-back window in days (default: 7)"),
			),
		),
		s.handleGetHistory,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	err := server.NewStdioServer(s.server).Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) handleGetStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stateProvider.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	days, err := s.stateProvider.LastDays(ctx, 7)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily history: %w", err)
	}

	week := make([]map[string]interface{}, 0, len(days))
	for _, d := range days {
		week = append(week, map[string]interface{}{
			"date":  d.Date,
			"label": d.Label(),
			"count": d.Count,
		})
	}

	open := 0
	for _, t := range stats.Tasks {
		if !t.Completed {
			open++
		}
	}

	result := map[string]interface{}{
		"total_pomodoros": stats.TotalPomodoros,
		"total_minutes":   stats.TotalMinutes,
		"sessions_today":  stats.SessionsToday,
		"daily_average":   domain.FormatAverage(stats.DailyAverage()),
		"last_7_days":     week,
		"open_tasks":      open,
	}
	return jsonResult(result)
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")

	var tasks []domain.IndexedTask
	if query == "" {
		stats, err := s.stateProvider.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		for i, t := range stats.Tasks {
			tasks = append(tasks, domain.IndexedTask{Index: i, Task: t})
		}
	} else {
		var err error
		tasks, err = s.stateProvider.FindTasks(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to find tasks: %w", err)
		}
	}

	list := make([]map[string]interface{}, 0, len(tasks))
	for _, it := range tasks {
		list = append(list, taskData(it.Index, it.Task))
	}

	result := map[string]interface{}{
		"tasks":       list,
		"total_count": len(list),
	}
	if query != "" {
		result["query"] = query
	}
	return jsonResult(result)
}

func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}

	task, err := s.stateProvider.AddTask(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}
	if task == nil {
		return mcp.NewToolResultError("task text must not be blank"), nil
	}

	stats, err := s.stateProvider.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return jsonResult(map[string]interface{}{
		"message": "Task added",
		"task":    taskData(len(stats.Tasks)-1, *task),
	})
}

func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.withIndex(ctx, request, "Task completed", s.stateProvider.CompleteTask)
}

func (s *Server) handleRemoveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.withIndex(ctx, request, "Task removed", s.stateProvider.RemoveTask)
}

// withIndex validates the index argument and applies op. An out-of-range
// index is a tool error, not a protocol error.
func (s *Server) withIndex(ctx context.Context, request mcp.CallToolRequest, message string, op func(context.Context, int) error) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	raw, ok := args["index"]
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return mcp.NewToolResultError(fmt.Sprintf("index must be an integer, got %v", raw)), nil
	}
	index := int(f)

	if err := op(ctx, index); err != nil {
		if errors.Is(err, domain.ErrIndexOutOfRange) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to update task %d: %w", index, err)
	}
	return jsonResult(map[string]interface{}{
		"message": message,
		"index":   index,
	})
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := int(request.GetFloat("days", 7))
	if days <= 0 {
		return mcp.NewToolResultError("days must be positive"), nil
	}

	since := s.now().AddDate(0, 0, -days)
	entries, err := s.stateProvider.History(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	sessions := make([]map[string]interface{}, 0, len(entries))
	var focus time.Duration
	for _, e := range entries {
		data := map[string]interface{}{
			"id":           e.ID,
			"mode":         string(e.Mode),
			"duration":     e.Duration.String(),
			"started_at":   e.StartedAt.Format(time.RFC3339),
			"completed_at": e.CompletedAt.Format(time.RFC3339),
		}
		if e.GitBranch != "" {
			data["git_branch"] = e.GitBranch
		}
		if e.GitCommit != "" {
			data["git_commit"] = e.GitCommit
		}
		if e.GitRepo != "" {
			data["git_repository"] = e.GitRepo
		}
		sessions = append(sessions, data)
		if e.Mode == domain.ModePomodoro {
			focus += e.Duration
		}
	}

	return jsonResult(map[string]interface{}{
		"days":           days,
		"sessions":       sessions,
		"total_sessions": len(sessions),
		"focus_time":     focus.String(),
	})
}

func taskData(index int, t domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"index":     index,
		"text":      t.Text,
		"completed": t.Completed,
	}
	if !t.CreatedAt.IsZero() {
		data["created_at"] = t.CreatedAt.Format(time.RFC3339)
	}
	return data
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
