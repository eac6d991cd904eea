package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo/internal/adapters/git"
	"github.com/xvierd/pomo/internal/adapters/notification"
	"github.com/xvierd/pomo/internal/adapters/storage"
	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
	"github.com/xvierd/pomo/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	stats    *services.StatsService
	journal  *storage.Journal
	state    *services.StateService
	git      ports.GitDetector
	notifier *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices loads the configuration and, unless the command opts
// out, the statistics file and the session journal.
func initializeServices(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app = appDeps{config: cfg}

	if cmd.Annotations[skipServices] == "true" {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path := statsPath
	if path == "" {
		path = cfg.StatsPath()
	}
	app.stats = services.NewStatsService(storage.NewJSONStore(path), cfg.Durations().PomodoroMinutes())
	if err := loadStats(ctx, cmd); err != nil {
		return err
	}

	app.notifier = notification.New(&cfg.Notifications)
	if cfg.Git.Enabled {
		app.git = git.NewDetector()
	}

	if cfg.Storage.Journal {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o750); err != nil {
			warnf(cmd, "failed to create data directory: %v", err)
		} else if j, err := storage.OpenJournal(cfg.JournalPath()); err != nil {
			warnf(cmd, "session journal disabled: %v", err)
		} else {
			app.journal = j
		}
	}

	// A nil *Journal must not become a non-nil interface.
	var journal ports.SessionJournal
	if app.journal != nil {
		journal = app.journal
	}
	app.state = services.NewStateService(app.stats, journal)

	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadStats reads the statistics file. A corrupt file is quarantined and
// replaced by its backup or a zero record when recovery is enabled.
func loadStats(ctx context.Context, cmd *cobra.Command) error {
	err := app.stats.Load(ctx)
	if err == nil {
		return nil
	}

	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) || !app.config.Storage.RecoverCorrupt {
		return fmt.Errorf("failed to load statistics: %w", err)
	}

	moved, recoverErr := app.stats.Recover(ctx)
	if recoverErr != nil {
		return fmt.Errorf("failed to recover statistics: %w", recoverErr)
	}
	warnf(cmd, "%v; moved it to %s and started from the last good copy", parseErr, moved)
	return nil
}

// newEngine builds a timer over the loaded statistics with the completion
// side effects subscribed. Notifications and journal writes run off the
// engine's dispatch path; the returned stop flushes them. warn receives their
// failures.
func newEngine(warn func(error)) (*services.TimerEngine, func()) {
	engine := services.NewTimerEngine(
		app.config.Durations(),
		app.stats,
		services.WithRotation(app.config.Rotation()),
	)

	var async []*services.AsyncObserver
	if app.notifier.IsEnabled() {
		app.notifier.OnError(warn)
		a := services.NewAsyncObserver(app.notifier)
		async = append(async, a)
		engine.Subscribe(a)
	}

	if app.journal != nil {
		wd, _ := os.Getwd()
		recorder := services.NewSessionRecorder(app.journal, app.git, wd)
		recorder.OnError(warn)
		a := services.NewAsyncObserver(recorder)
		async = append(async, a)
		engine.Subscribe(a)
	}

	stop := func() {
		engine.Close()
		for _, a := range async {
			a.Close()
		}
	}
	return engine, stop
}

// stderrWarn returns a warn callback writing to the command's stderr.
func stderrWarn(cmd *cobra.Command) func(error) {
	return func(err error) { warnf(cmd, "%v", err) }
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.journal != nil {
		err := app.journal.Close()
		app.journal = nil
		return err
	}
	return nil
}

// setupSignalHandler returns a context cancelled on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// warnf reports a non-fatal problem on stderr.
func warnf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: "+format+"\n", args...)
}
