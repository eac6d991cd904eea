// Package config provides configuration management for pomo.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/pomo/internal/domain"
)

const defaultDataDir = "~/.pomo"

// Config holds all configuration for pomo.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Git           GitConfig          `mapstructure:"git"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds the mode durations and the long break interval.
type TimerConfig struct {
	Pomodoro       Duration `mapstructure:"pomodoro"`
	ShortBreak     Duration `mapstructure:"short_break"`
	LongBreak      Duration `mapstructure:"long_break"`
	LongBreakEvery int      `mapstructure:"long_break_every"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir        string `mapstructure:"data_dir"`
	StatsFile      string `mapstructure:"stats_file"`
	RecoverCorrupt bool   `mapstructure:"recover_corrupt"`
	Journal        bool   `mapstructure:"journal"`
}

// GitConfig controls git context detection for journal entries.
type GitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorWork          string `mapstructure:"color_work"`
	ColorBreak         string `mapstructure:"color_break"`
	ColorPaused        string `mapstructure:"color_paused"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorTask          string `mapstructure:"color_task"`
	ColorHelp          string `mapstructure:"color_help"`
	WorkGradientStart  string `mapstructure:"work_gradient_start"`
	WorkGradientEnd    string `mapstructure:"work_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
	IconApp            string `mapstructure:"icon_app"`
	IconTask           string `mapstructure:"icon_task"`
	IconStats          string `mapstructure:"icon_stats"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:          "#E0605E",
		ColorBreak:         "#4ECDC4",
		ColorPaused:        "#6B7280",
		ColorTitle:         "#6B7280",
		ColorTask:          "#A0AEC0",
		ColorHelp:          "#95A5A6",
		WorkGradientStart:  "#E0605E",
		WorkGradientEnd:    "#F4A261",
		BreakGradientStart: "#4ECDC4",
		BreakGradientEnd:   "#2ECC71",
		IconApp:            "🍅",
		IconTask:           "📋",
		IconStats:          "📊",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			Pomodoro:       Duration(25 * time.Minute),
			ShortBreak:     Duration(5 * time.Minute),
			LongBreak:      Duration(15 * time.Minute),
			LongBreakEvery: domain.DefaultLongBreakEvery,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{
			DataDir:        defaultDataDir,
			StatsFile:      "pomodoro_stats.json",
			RecoverCorrupt: true,
			Journal:        true,
		},
		Git: GitConfig{
			Enabled: true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file, creating it
// with defaults when missing.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := SaveTo(DefaultConfig(), configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes the configuration to configPath.
func SaveTo(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("timer.pomodoro", cfg.Timer.Pomodoro.String())
	v.Set("timer.short_break", cfg.Timer.ShortBreak.String())
	v.Set("timer.long_break", cfg.Timer.LongBreak.String())
	v.Set("timer.long_break_every", cfg.Timer.LongBreakEvery)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.stats_file", cfg.Storage.StatsFile)
	v.Set("storage.recover_corrupt", cfg.Storage.RecoverCorrupt)
	v.Set("storage.journal", cfg.Storage.Journal)
	v.Set("git.enabled", cfg.Git.Enabled)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("theme.color_work", cfg.Theme.ColorWork)
	v.Set("theme.color_break", cfg.Theme.ColorBreak)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_task", cfg.Theme.ColorTask)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.work_gradient_start", cfg.Theme.WorkGradientStart)
	v.Set("theme.work_gradient_end", cfg.Theme.WorkGradientEnd)
	v.Set("theme.break_gradient_start", cfg.Theme.BreakGradientStart)
	v.Set("theme.break_gradient_end", cfg.Theme.BreakGradientEnd)
	v.Set("theme.icon_app", cfg.Theme.IconApp)
	v.Set("theme.icon_task", cfg.Theme.IconTask)
	v.Set("theme.icon_stats", cfg.Theme.IconStats)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pomo", "config.toml"), nil
}

// StatsPath returns the path to the statistics file.
func (c *Config) StatsPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.StatsFile)
}

// JournalPath returns the path to the session journal database.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Storage.DataDir, "journal.db")
}

// Durations converts the timer section to domain durations.
func (c *Config) Durations() domain.Durations {
	return domain.Durations{
		Pomodoro:   time.Duration(c.Timer.Pomodoro),
		ShortBreak: time.Duration(c.Timer.ShortBreak),
		LongBreak:  time.Duration(c.Timer.LongBreak),
	}
}

// Rotation returns the configured rotation policy.
func (c *Config) Rotation() domain.RotationPolicy {
	return domain.RotationPolicy{LongBreakEvery: c.Timer.LongBreakEvery}
}

// Validate rejects settings the timer cannot run with.
func (c *Config) Validate() error {
	checks := []struct {
		key string
		d   Duration
	}{
		{"timer.pomodoro", c.Timer.Pomodoro},
		{"timer.short_break", c.Timer.ShortBreak},
		{"timer.long_break", c.Timer.LongBreak},
	}
	for _, check := range checks {
		if time.Duration(check.d) < time.Second {
			return fmt.Errorf("%s must be at least 1s, got %s", check.key, check.d)
		}
	}
	// Completed Pomodoros credit whole minutes to total_time.
	if p := time.Duration(c.Timer.Pomodoro); p%time.Minute != 0 {
		return fmt.Errorf("timer.pomodoro must be a whole number of minutes, got %s", c.Timer.Pomodoro)
	}
	if c.Timer.LongBreakEvery < 1 {
		return fmt.Errorf("timer.long_break_every must be positive, got %d", c.Timer.LongBreakEvery)
	}
	if strings.TrimSpace(c.Storage.StatsFile) == "" {
		return errors.New("storage.stats_file must not be empty")
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "" {
		path = defaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.pomodoro", d.Timer.Pomodoro.String())
	v.SetDefault("timer.short_break", d.Timer.ShortBreak.String())
	v.SetDefault("timer.long_break", d.Timer.LongBreak.String())
	v.SetDefault("timer.long_break_every", d.Timer.LongBreakEvery)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.stats_file", d.Storage.StatsFile)
	v.SetDefault("storage.recover_corrupt", d.Storage.RecoverCorrupt)
	v.SetDefault("storage.journal", d.Storage.Journal)
	v.SetDefault("git.enabled", d.Git.Enabled)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)

	// Theme defaults
	v.SetDefault("theme.color_work", d.Theme.ColorWork)
	v.SetDefault("theme.color_break", d.Theme.ColorBreak)
	v.SetDefault("theme.color_paused", d.Theme.ColorPaused)
	v.SetDefault("theme.color_title", d.Theme.ColorTitle)
	v.SetDefault("theme.color_task", d.Theme.ColorTask)
	v.SetDefault("theme.color_help", d.Theme.ColorHelp)
	v.SetDefault("theme.work_gradient_start", d.Theme.WorkGradientStart)
	v.SetDefault("theme.work_gradient_end", d.Theme.WorkGradientEnd)
	v.SetDefault("theme.break_gradient_start", d.Theme.BreakGradientStart)
	v.SetDefault("theme.break_gradient_end", d.Theme.BreakGradientEnd)
	v.SetDefault("theme.icon_app", d.Theme.IconApp)
	v.SetDefault("theme.icon_task", d.Theme.IconTask)
	v.SetDefault("theme.icon_stats", d.Theme.IconStats)
}
