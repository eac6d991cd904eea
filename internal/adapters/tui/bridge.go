package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// displayMsg carries a timer projection into the bubbletea loop.
type displayMsg domain.Display

// completedMsg carries a completion event into the bubbletea loop.
type completedMsg domain.SessionCompleted

// warningMsg carries a non-fatal error raised outside the bubbletea loop.
type warningMsg struct{ err error }

// Bridge forwards engine notifications to the program as messages. The engine
// calls observers from its own goroutine; the model drains the bridge with
// waitForEvent so Update stays single-threaded.
//
// Sends never block. Only the newest display is kept; completions and
// warnings are queued and delivered before it, in order.
type Bridge struct {
	mu        sync.Mutex
	display   *domain.Display
	completed []domain.SessionCompleted
	warnings  []error

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

var _ ports.TimerObserver = (*Bridge)(nil)

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// OnTick implements ports.TimerObserver. A display not yet taken by the
// model is replaced.
func (b *Bridge) OnTick(d domain.Display) {
	b.push(func() { b.display = &d })
}

// OnSessionCompleted implements ports.TimerObserver.
func (b *Bridge) OnSessionCompleted(ev domain.SessionCompleted) {
	b.push(func() { b.completed = append(b.completed, ev) })
}

// Warn shows err in the status area instead of writing to the terminal the
// program owns.
func (b *Bridge) Warn(err error) {
	if err == nil {
		return
	}
	b.push(func() { b.warnings = append(b.warnings, err) })
}

// Close stops delivery. Later notifications are dropped.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) push(add func()) {
	select {
	case <-b.done:
		return
	default:
	}

	b.mu.Lock()
	add()
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest pending message, or returns nil.
func (b *Bridge) next() tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case len(b.completed) > 0:
		ev := b.completed[0]
		b.completed = b.completed[1:]
		return completedMsg(ev)
	case len(b.warnings) > 0:
		err := b.warnings[0]
		b.warnings = b.warnings[1:]
		return warningMsg{err: err}
	case b.display != nil:
		d := *b.display
		b.display = nil
		return displayMsg(d)
	}
	return nil
}

// waitForEvent blocks until the next engine notification.
func waitForEvent(b *Bridge) tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			if msg := b.next(); msg != nil {
				return msg
			}
			select {
			case <-b.wake:
			case <-b.done:
				return nil
			}
		}
	}
}
