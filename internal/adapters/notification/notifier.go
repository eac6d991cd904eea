// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// Notifier handles desktop notifications. It also observes the timer so a
// completed session raises a notice without extra wiring.
type Notifier struct {
	cfg     *config.NotificationConfig
	notify  func(title, message string) error
	alert   func(title, message string) error
	onError func(error)
}

var (
	_ ports.Notifier      = (*Notifier)(nil)
	_ ports.TimerObserver = (*Notifier)(nil)
)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
	}
}

// OnError sets a callback for delivery failures raised while observing.
func (n *Notifier) OnError(fn func(error)) {
	n.onError = fn
}

// Notify displays a desktop notification if enabled. With sound enabled the
// notification is raised as an alert.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	if n.cfg.Sound {
		return n.alert(title, message)
	}
	return n.notify(title, message)
}

// NotifySessionComplete raises the notice for a finished countdown.
func (n *Notifier) NotifySessionComplete(ev domain.SessionCompleted) error {
	title, message := CompletionMessage(ev)
	return n.Notify(title, message)
}

// CompletionMessage builds the notice text for a finished countdown.
func CompletionMessage(ev domain.SessionCompleted) (title, message string) {
	if ev.Mode == domain.ModePomodoro {
		title = "🍅 Pomodoro complete!"
		message = fmt.Sprintf("Good job! That makes %d. Time for a %s.", ev.TotalPomodoros, strings.ToLower(ev.Next.Label()))
		return title, message
	}
	title = fmt.Sprintf("☕ %s complete!", ev.Mode.Label())
	message = "Break is over. Ready to focus?"
	return title, message
}

// OnTick implements ports.TimerObserver.
func (n *Notifier) OnTick(domain.Display) {}

// OnSessionCompleted implements ports.TimerObserver.
func (n *Notifier) OnSessionCompleted(ev domain.SessionCompleted) {
	if err := n.NotifySessionComplete(ev); err != nil && n.onError != nil {
		n.onError(fmt.Errorf("failed to send notification: %w", err))
	}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

