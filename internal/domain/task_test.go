package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"plain", "write report", "write report", true},
		{"trimmed", "  review PR \n", "review PR", true},
		{"empty", "", "", false},
		{"whitespace", " \t\n ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, ok := NewTask(tt.text, now)
			if ok != tt.wantOK {
				t.Fatalf("NewTask(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if task.Text != tt.want {
				t.Errorf("Text = %q, want %q", task.Text, tt.want)
			}
			if ok && task.Completed {
				t.Error("new task should not be completed")
			}
		})
	}
}

func TestStatistics_TaskOperations(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	s := NewStatistics()

	if _, ok := s.AddTask("   ", now); ok {
		t.Fatal("blank task should be rejected")
	}
	if len(s.Tasks) != 0 {
		t.Fatalf("len(Tasks) = %d, want 0", len(s.Tasks))
	}

	for _, text := range []string{"a", "b", "c"} {
		if _, ok := s.AddTask(text, now); !ok {
			t.Fatalf("AddTask(%q) rejected", text)
		}
	}

	if err := s.CompleteTask(1); err != nil {
		t.Fatalf("CompleteTask(1) error: %v", err)
	}
	if !s.Tasks[1].Completed || s.Tasks[0].Completed || s.Tasks[2].Completed {
		t.Errorf("only task 1 should be completed: %+v", s.Tasks)
	}

	if err := s.RemoveTask(0); err != nil {
		t.Fatalf("RemoveTask(0) error: %v", err)
	}
	if len(s.Tasks) != 2 || s.Tasks[0].Text != "b" || s.Tasks[1].Text != "c" {
		t.Errorf("after remove got %+v", s.Tasks)
	}

	for _, idx := range []int{-1, 2, 99} {
		before := len(s.Tasks)
		if err := s.CompleteTask(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("CompleteTask(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
		if err := s.RemoveTask(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveTask(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
		if len(s.Tasks) != before {
			t.Errorf("out-of-range call mutated tasks")
		}
	}
}

func TestTask_DisplayText(t *testing.T) {
	open := Task{Text: "plan"}
	done := Task{Text: "plan", Completed: true}

	if open.Marker() != "○" || open.DisplayText() != "plan" {
		t.Errorf("open task rendered as %s %s", open.Marker(), open.DisplayText())
	}
	if done.Marker() != "✓" || done.DisplayText() != "[DONE] plan" {
		t.Errorf("done task rendered as %s %s", done.Marker(), done.DisplayText())
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
		check   func(time.Time) bool
	}{
		{
			name:  "rfc3339",
			in:    `"2024-05-02T10:00:00Z"`,
			check: func(tm time.Time) bool { return tm.Equal(time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)) },
		},
		{
			name:  "naive with micros",
			in:    `"2024-05-02T10:00:00.123456"`,
			check: func(tm time.Time) bool { return tm.Year() == 2024 && tm.Nanosecond() == 123456000 },
		},
		{
			name:  "naive seconds",
			in:    `"2024-05-02T10:00:00"`,
			check: func(tm time.Time) bool { return tm.Hour() == 10 && tm.Minute() == 0 },
		},
		{
			name:  "null",
			in:    `null`,
			check: func(tm time.Time) bool { return tm.IsZero() },
		},
		{name: "garbage", in: `"yesterday"`, wantErr: true},
		{name: "number", in: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.in), &ts)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(ts.Time) {
				t.Errorf("unexpected time %v", ts.Time)
			}
		})
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(data), "2024-05-02T10:00:00Z") {
		t.Errorf("Marshal = %s", data)
	}
}
