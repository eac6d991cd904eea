package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/config"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show the effective configuration",
	Long:        `Print the configuration after defaults are applied. Use "config set" to change a value.`,
	Annotations: map[string]string{skipServices: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), configData(app.config))
		}
		path, err := configFile()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), app.config, path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipServices: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFile()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Long: `Change one configuration value and save the file.

Keys:
  timer.pomodoro, timer.short_break, timer.long_break   durations such as 25m or 90s
  timer.long_break_every                                 positive integer
  notifications.enabled, notifications.sound             true or false
  storage.recover_corrupt, storage.journal               true or false
  git.enabled, mcp.enabled                               true or false`,
	Example:     `  pomo config set timer.pomodoro 50m`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipServices: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *app.config
		if err := setConfigValue(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		path, err := configFile()
		if err != nil {
			return err
		}
		if err := config.SaveTo(&cfg, path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		*app.config = cfg
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func configFile() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func setConfigValue(cfg *config.Config, key, value string) error {
	parseDuration := func(dst *config.Duration) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q for %s: %w", value, key, err)
		}
		*dst = config.Duration(d)
		return nil
	}
	parseBool := func(dst *bool) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for %s", value, key)
		}
		*dst = b
		return nil
	}

	switch key {
	case "timer.pomodoro":
		return parseDuration(&cfg.Timer.Pomodoro)
	case "timer.short_break":
		return parseDuration(&cfg.Timer.ShortBreak)
	case "timer.long_break":
		return parseDuration(&cfg.Timer.LongBreak)
	case "timer.long_break_every":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number %q for %s", value, key)
		}
		cfg.Timer.LongBreakEvery = n
		return nil
	case "notifications.enabled":
		return parseBool(&cfg.Notifications.Enabled)
	case "notifications.sound":
		return parseBool(&cfg.Notifications.Sound)
	case "storage.recover_corrupt":
		return parseBool(&cfg.Storage.RecoverCorrupt)
	case "storage.journal":
		return parseBool(&cfg.Storage.Journal)
	case "git.enabled":
		return parseBool(&cfg.Git.Enabled)
	case "mcp.enabled":
		return parseBool(&cfg.MCP.Enabled)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

func configData(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"timer": map[string]interface{}{
			"pomodoro":         cfg.Timer.Pomodoro.String(),
			"short_break":      cfg.Timer.ShortBreak.String(),
			"long_break":       cfg.Timer.LongBreak.String(),
			"long_break_every": cfg.Timer.LongBreakEvery,
		},
		"notifications": map[string]interface{}{
			"enabled": cfg.Notifications.Enabled,
			"sound":   cfg.Notifications.Sound,
		},
		"storage": map[string]interface{}{
			"data_dir":        cfg.Storage.DataDir,
			"stats_file":      cfg.StatsPath(),
			"recover_corrupt": cfg.Storage.RecoverCorrupt,
			"journal":         cfg.Storage.Journal,
		},
		"git": map[string]interface{}{"enabled": cfg.Git.Enabled},
		"mcp": map[string]interface{}{"enabled": cfg.MCP.Enabled},
	}
}

func printConfig(w io.Writer, cfg *config.Config, path string) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	notif := onOff(cfg.Notifications.Enabled)
	if cfg.Notifications.Enabled && cfg.Notifications.Sound {
		notif = "on (with sound)"
	}

	fmt.Fprintf(w, "\n  Config file:  %s\n\n", path)
	fmt.Fprintf(w, "  Pomodoro:              %s\n", formatMinutes(time.Duration(cfg.Timer.Pomodoro)))
	fmt.Fprintf(w, "  Short break:           %s\n", formatMinutes(time.Duration(cfg.Timer.ShortBreak)))
	fmt.Fprintf(w, "  Long break:            %s\n", formatMinutes(time.Duration(cfg.Timer.LongBreak)))
	fmt.Fprintf(w, "  Long break every:      %d pomodoros\n", cfg.Timer.LongBreakEvery)
	fmt.Fprintf(w, "  Notifications:         %s\n", notif)
	fmt.Fprintf(w, "  Statistics file:       %s\n", cfg.StatsPath())
	fmt.Fprintf(w, "  Recover corrupt file:  %s\n", onOff(cfg.Storage.RecoverCorrupt))
	fmt.Fprintf(w, "  Session journal:       %s\n", onOff(cfg.Storage.Journal))
	fmt.Fprintf(w, "  Git context:           %s\n", onOff(cfg.Git.Enabled))
	fmt.Fprintf(w, "  MCP server:            %s\n\n", onOff(cfg.MCP.Enabled))
}
