package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// newHome points HOME at a temp dir so the default data dir and journal stay
// inside the test.
func newHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

// runPomo runs the root command against the config and statistics files in
// dir. Flag variables are reset first because cobra keeps them between runs.
func runPomo(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	full := append([]string{
		"--config", filepath.Join(dir, "config.toml"),
		"--stats", filepath.Join(dir, "stats.json"),
	}, args...)
	return executeCmd(rootCmd, full...)
}

func resetFlags() {
	configPath, statsPath, jsonOutput = "", "", false
	taskFind = ""
	statsDays, statsMarkdown = 7, false
	exportFormat, exportData, exportDays, exportOutput = "csv", "days", 7, ""
	historyDays, historyLimit = 0, 20
}

func writeStats(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "stats.json"), []byte(content), 0o600); err != nil {
		t.Fatalf("write stats: %v", err)
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "pomo" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "pomo")
	}

	for _, name := range []string{"config", "stats", "json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}

	want := []string{"run", "status", "stats", "task", "history", "export", "config", "mcp"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCmd_Help(t *testing.T) {
	dir := newHome(t)
	stdout, _, err := runPomo(t, dir, "help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	if !strings.Contains(stdout, "pomo") {
		t.Error("help output should mention pomo")
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"25 minutes", 25 * time.Minute, "25m"},
		{"60 minutes", time.Hour, "1h"},
		{"90 minutes", 90 * time.Minute, "1h30m"},
		{"120 minutes", 2 * time.Hour, "2h"},
		{"seconds", 45 * time.Second, "45s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMinutes(tt.d); got != tt.want {
				t.Errorf("formatMinutes(%s) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	dir := newHome(t)

	stdout, _, err := runPomo(t, dir, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(stdout) != filepath.Join(dir, "config.toml") {
		t.Errorf("config path = %q", stdout)
	}

	if _, _, err := runPomo(t, dir, "config", "set", "timer.pomodoro", "50m"); err != nil {
		t.Fatalf("config set: %v", err)
	}

	stdout, _, err = runPomo(t, dir, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(stdout, "50m") {
		t.Errorf("config output missing new duration:\n%s", stdout)
	}

	tests := []struct {
		key, value string
		wantErr    string
	}{
		{"timer.pomodoro", "soon", "invalid duration"},
		{"timer.pomodoro", "90s", "whole number of minutes"},
		{"timer.short_break", "0s", "at least 1s"},
		{"timer.long_break_every", "0", "must be positive"},
		{"notifications.sound", "loud", "invalid boolean"},
		{"theme.color_work", "#fff", "unknown config key"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, _, err := runPomo(t, dir, "config", "set", tt.key, tt.value)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("config set %s %s: err = %v, want %q", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
