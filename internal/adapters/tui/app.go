package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/ports"
)

// ObservableEngine is an Engine that accepts observers.
type ObservableEngine interface {
	Engine
	Subscribe(o ports.TimerObserver)
}

// Run starts the fullscreen interface and blocks until the user quits or ctx
// is cancelled. A nil bridge gets a fresh one. The caller owns engine and
// stats shutdown.
func Run(ctx context.Context, engine ObservableEngine, stats Stats, bridge *Bridge, theme *config.ThemeConfig) error {
	if bridge == nil {
		bridge = NewBridge()
	}
	defer bridge.Close()
	engine.Subscribe(bridge)

	m := NewModel(ctx, engine, stats, bridge, theme)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
