package services

import (
	"context"
	"sync"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// CompletionRecorder is what the timer needs from the statistics store.
type CompletionRecorder interface {
	RecordPomodoroCompletion(ctx context.Context) (int, error)
	TotalPomodoros() int
}

// TimerEngine runs the countdown state machine.
//
// All state changes happen under mu. Every countdown run carries an epoch;
// Pause, Reset and completion bump it, so a tick delivered after the run
// stopped is dropped. Observers are called without mu held but under
// notifyMu, which is taken before mu is released, so they see events in the
// order the state changed. Observers must not call back into the engine
// synchronously.
type TimerEngine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	state     domain.TimerState
	durations domain.Durations
	rotation  domain.RotationPolicy
	recorder  CompletionRecorder
	observers []ports.TimerObserver
	newTicker ports.TickerFactory
	now       func() time.Time

	epoch     uint64
	stop      chan struct{}
	done      chan struct{}
	ctx       context.Context
	startedAt time.Time
}

// EngineOption configures a TimerEngine.
type EngineOption func(*TimerEngine)

// WithTickerFactory replaces the one-second wall clock ticker.
func WithTickerFactory(f ports.TickerFactory) EngineOption {
	return func(e *TimerEngine) { e.newTicker = f }
}

// WithClock replaces time.Now for completion timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *TimerEngine) { e.now = now }
}

// WithRotation replaces the default long-break interval.
func WithRotation(p domain.RotationPolicy) EngineOption {
	return func(e *TimerEngine) { e.rotation = p }
}

// NewTimerEngine creates an idle engine in Pomodoro mode.
func NewTimerEngine(durations domain.Durations, recorder CompletionRecorder, opts ...EngineOption) *TimerEngine {
	e := &TimerEngine{
		durations: durations,
		rotation:  domain.DefaultRotation,
		recorder:  recorder,
		newTicker: NewWallTicker,
		now:       time.Now,
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = domain.TimerState{
		Mode:             domain.ModePomodoro,
		RemainingSeconds: durations.Seconds(domain.ModePomodoro),
	}
	return e
}

// Subscribe registers an observer for ticks and completions.
func (e *TimerEngine) Subscribe(o ports.TimerObserver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// State returns a copy of the current state.
func (e *TimerEngine) State() domain.TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Display projects the current state.
func (e *TimerEngine) Display() domain.Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Project(e.state, e.durations)
}

// Phase reports Idle, Running or Paused.
func (e *TimerEngine) Phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase(e.durations)
}

// Durations returns the configured mode lengths.
func (e *TimerEngine) Durations() domain.Durations {
	return e.durations
}

// SetMode switches mode and resets the remaining time. It does nothing and
// returns false while the countdown is running.
func (e *TimerEngine) SetMode(mode domain.Mode) bool {
	e.mu.Lock()
	if e.state.Running {
		e.mu.Unlock()
		return false
	}
	e.state.Mode = mode
	e.state.RemainingSeconds = e.durations.Seconds(mode)
	e.startedAt = time.Time{}
	e.dispatch([]timerEvent{e.displayEventLocked()})
	return true
}

// Start begins or resumes the countdown. It returns false if already
// running. Cancelling ctx halts the countdown the same way Pause does.
func (e *TimerEngine) Start(ctx context.Context) bool {
	e.mu.Lock()
	if e.state.Running {
		e.mu.Unlock()
		return false
	}

	full := e.durations.Seconds(e.state.Mode)
	if e.state.RemainingSeconds <= 0 {
		e.state.RemainingSeconds = full
	}
	if e.startedAt.IsZero() || e.state.RemainingSeconds == full {
		e.startedAt = e.now()
	}

	e.state.Running = true
	e.epoch++
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.ctx = ctx

	go e.run(ctx, e.epoch, e.newTicker(time.Second), e.stop, e.done)

	e.dispatch([]timerEvent{e.displayEventLocked()})
	return true
}

// Pause halts the countdown keeping the remaining time. It returns false if
// the timer was not running.
func (e *TimerEngine) Pause() bool {
	e.mu.Lock()
	if !e.state.Running {
		e.mu.Unlock()
		return false
	}
	e.haltLocked()
	e.dispatch([]timerEvent{e.displayEventLocked()})
	return true
}

// Reset halts the countdown and restores the full duration of the current
// mode.
func (e *TimerEngine) Reset() {
	e.mu.Lock()
	if e.state.Running {
		e.haltLocked()
	}
	e.state.RemainingSeconds = e.durations.Seconds(e.state.Mode)
	e.startedAt = time.Time{}
	e.dispatch([]timerEvent{e.displayEventLocked()})
}

// Tick advances the running countdown by one second. It is a no-op when the
// timer is not running.
func (e *TimerEngine) Tick() {
	e.mu.Lock()
	e.tickLocked(e.epoch)
}

// Close halts the countdown and waits for the tick goroutine to exit.
func (e *TimerEngine) Close() {
	e.mu.Lock()
	if e.state.Running {
		e.haltLocked()
	}
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (e *TimerEngine) run(ctx context.Context, epoch uint64, ticker ports.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			e.mu.Lock()
			if e.state.Running && e.epoch == epoch {
				e.haltLocked()
				e.dispatch([]timerEvent{e.displayEventLocked()})
				return
			}
			e.mu.Unlock()
			return
		case <-ticker.C():
			e.mu.Lock()
			if !e.tickLocked(epoch) {
				return
			}
		}
	}
}

// tickLocked must be called with mu held and always releases it. It reports
// whether the countdown for epoch is still running afterwards.
func (e *TimerEngine) tickLocked(epoch uint64) bool {
	if !e.state.Running || epoch != e.epoch {
		e.mu.Unlock()
		return false
	}

	if e.state.RemainingSeconds > 0 {
		e.state.RemainingSeconds--
	}
	if e.state.RemainingSeconds > 0 {
		e.dispatch([]timerEvent{e.displayEventLocked()})
		return true
	}

	events := e.completeLocked()
	e.dispatch(events)
	return false
}

// completeLocked stops the countdown at zero, records the completion and
// selects the next mode without starting it.
func (e *TimerEngine) completeLocked() []timerEvent {
	finished := e.displayEventLocked()
	completed := e.state.Mode
	e.haltLocked()

	now := e.now()
	ev := domain.SessionCompleted{
		Mode:        completed,
		Duration:    e.durations.For(completed),
		StartedAt:   e.startedAt,
		CompletedAt: now,
	}
	if ev.StartedAt.IsZero() {
		ev.StartedAt = now.Add(-ev.Duration)
	}

	ctx := context.WithoutCancel(e.ctx)
	if completed == domain.ModePomodoro {
		ev.TotalPomodoros, ev.Err = e.recorder.RecordPomodoroCompletion(ctx)
	} else {
		ev.TotalPomodoros = e.recorder.TotalPomodoros()
	}

	ev.Next = e.rotation.Next(completed, ev.TotalPomodoros)
	e.state.Mode = ev.Next
	e.state.RemainingSeconds = e.durations.Seconds(ev.Next)
	e.startedAt = time.Time{}

	return []timerEvent{finished, {completed: &ev}, e.displayEventLocked()}
}

// haltLocked stops the current run. The goroutine exits on its own.
func (e *TimerEngine) haltLocked() {
	e.state.Running = false
	e.epoch++
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}

type timerEvent struct {
	display   *domain.Display
	completed *domain.SessionCompleted
}

func (e *TimerEngine) displayEventLocked() timerEvent {
	d := domain.Project(e.state, e.durations)
	return timerEvent{display: &d}
}

// dispatch must be called with mu held. It hands over to notifyMu, releases
// mu and delivers events to a snapshot of the observers.
func (e *TimerEngine) dispatch(events []timerEvent) {
	observers := append([]ports.TimerObserver(nil), e.observers...)
	e.notifyMu.Lock()
	e.mu.Unlock()
	defer e.notifyMu.Unlock()

	for _, ev := range events {
		for _, o := range observers {
			switch {
			case ev.display != nil:
				o.OnTick(*ev.display)
			case ev.completed != nil:
				o.OnSessionCompleted(*ev.completed)
			}
		}
	}
}

// wallTicker adapts time.Ticker to ports.Ticker.
type wallTicker struct {
	t *time.Ticker
}

// NewWallTicker returns a ports.Ticker backed by time.Ticker.
func NewWallTicker(interval time.Duration) ports.Ticker {
	return wallTicker{t: time.NewTicker(interval)}
}

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }
