package ports

import (
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

// TimerObserver receives timer updates. Calls arrive in order from a single
// goroutine at a time and must return promptly.
// This is a driving port (implemented by presentation surfaces).
type TimerObserver interface {
	// OnTick is called after every state change with the projected display.
	OnTick(d domain.Display)

	// OnSessionCompleted is called once when a countdown reaches zero.
	OnSessionCompleted(ev domain.SessionCompleted)
}

// Ticker delivers countdown ticks. time.Ticker satisfies it through an
// adapter; tests use a manual implementation.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every interval.
type TickerFactory func(interval time.Duration) Ticker

// Notifier shows desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	Notify(title, message string) error
}
