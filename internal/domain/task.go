// Package domain contains the core entities for pomo.
// These entities describe the timer, the persisted statistics record and the
// task list, and are independent of any storage or presentation concerns.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrIndexOutOfRange = errors.New("task index out of range")
	ErrInvalidMode     = errors.New("invalid timer mode")
	ErrDuplicateEntry  = errors.New("journal entry already exists")
)

// Task is a single entry of the to-do list kept inside the statistics record.
type Task struct {
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt Timestamp `json:"created_at"`
}

// NewTask creates a task from user input. It returns false when the text is
// blank after trimming.
func NewTask(text string, now time.Time) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	return Task{
		Text:      text,
		CreatedAt: Timestamp{Time: now},
	}, true
}

// Marker returns the list glyph for the task.
func (t Task) Marker() string {
	if t.Completed {
		return "✓"
	}
	return "○"
}

// DisplayText returns the text as shown in task lists.
func (t Task) DisplayText() string {
	if t.Completed {
		return "[DONE] " + t.Text
	}
	return t.Text
}

// IndexedTask pairs a task with its position in the list.
type IndexedTask struct {
	Index int
	Task  Task
}
