// Package cmd provides the CLI commands for pomo.
package cmd

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	statsPath  string
	jsonOutput bool
)

// skipServices marks commands that only need the configuration.
const skipServices = "skip-services"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "pomo - A Pomodoro timer with statistics and a task list",
	Long: `pomo is a terminal Pomodoro timer. It alternates focus sessions with
short and long breaks, keeps daily statistics and a task list in a local
JSON file, and journals every finished session.

Run "pomo" with no arguments to open the fullscreen timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.pomo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&statsPath, "stats", "", "Path to the statistics file (default: ~/.pomo/pomodoro_stats.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("pomo {{.Version}}\n")
}

// runTUI opens the fullscreen timer and saves statistics on the way out.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := setupSignalHandler(cmd.Context())
	defer stop()

	// Warnings go to the status area while the program owns the screen.
	bridge := tui.NewBridge()
	var screenReleased atomic.Bool
	engine, stopEngine := newEngine(func(err error) {
		if screenReleased.Load() {
			warnf(cmd, "%v", err)
			return
		}
		bridge.Warn(err)
	})
	runErr := tui.Run(ctx, engine, app.stats, bridge, &app.config.Theme)
	screenReleased.Store(true)
	stopEngine()

	// The signal context may already be cancelled; the final save must still run.
	if err := app.stats.Close(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return runErr
}
