package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/pomo/internal/domain"
)

// gatedObserver blocks every completion until release is closed.
type gatedObserver struct {
	release chan struct{}
	mu      sync.Mutex
	totals  []int
}

func (g *gatedObserver) OnTick(domain.Display) {}

func (g *gatedObserver) OnSessionCompleted(ev domain.SessionCompleted) {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.totals = append(g.totals, ev.TotalPomodoros)
}

func TestAsyncObserver_DoesNotBlockCaller(t *testing.T) {
	slow := &gatedObserver{release: make(chan struct{})}
	a := NewAsyncObserver(slow)

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 5; i++ {
			a.OnSessionCompleted(domain.SessionCompleted{TotalPomodoros: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnSessionCompleted waited for the slow observer")
	}

	close(slow.release)
	a.Close()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, slow.totals)
}

func TestAsyncObserver_DropsAfterClose(t *testing.T) {
	slow := &gatedObserver{release: make(chan struct{})}
	close(slow.release)
	a := NewAsyncObserver(slow)
	a.Close()

	a.OnSessionCompleted(domain.SessionCompleted{TotalPomodoros: 1})
	assert.Empty(t, slow.totals)
}
