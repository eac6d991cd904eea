package services

import (
	"sync"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// AsyncObserver hands completions to a slow observer on its own goroutine so
// the engine's dispatch returns immediately. Ticks are not forwarded.
// Completions are delivered in order and none are dropped before Close.
type AsyncObserver struct {
	next ports.TimerObserver

	mu      sync.Mutex
	pending []domain.SessionCompleted
	closed  bool

	wake chan struct{}
	done chan struct{}
}

var _ ports.TimerObserver = (*AsyncObserver)(nil)

// NewAsyncObserver starts the delivery goroutine for next.
func NewAsyncObserver(next ports.TimerObserver) *AsyncObserver {
	a := &AsyncObserver{
		next: next,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go a.loop()
	return a
}

// OnTick implements ports.TimerObserver.
func (a *AsyncObserver) OnTick(domain.Display) {}

// OnSessionCompleted implements ports.TimerObserver.
func (a *AsyncObserver) OnSessionCompleted(ev domain.SessionCompleted) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.pending = append(a.pending, ev)
	a.mu.Unlock()
	a.signal()
}

// Close delivers the queued completions and waits for the goroutine to exit.
func (a *AsyncObserver) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.signal()
	<-a.done
}

func (a *AsyncObserver) signal() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *AsyncObserver) loop() {
	defer close(a.done)
	for {
		a.mu.Lock()
		if len(a.pending) == 0 {
			closed := a.closed
			a.mu.Unlock()
			if closed {
				return
			}
			<-a.wake
			continue
		}
		ev := a.pending[0]
		a.pending = a.pending[1:]
		a.mu.Unlock()

		a.next.OnSessionCompleted(ev)
	}
}
