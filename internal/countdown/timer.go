// Package countdown runs the deal countdown shown on the home page.
package countdown

import (
	"sync"
	"time"
)

// DefaultRemaining is the deal window shown when a session starts.
const DefaultRemaining = 16*24*time.Hour + 21*time.Hour + 57*time.Minute + 23*time.Second

type Timer struct {
	interval time.Duration
	step     time.Duration

	mu        sync.Mutex
	remaining time.Duration
	stop      chan struct{}
	done      chan struct{}
}

type Option func(*Timer)

// WithInterval changes how often the timer ticks; each tick still removes
// one second from the remaining time.
func WithInterval(d time.Duration) Option {
	return func(t *Timer) { t.interval = d }
}

func New(remaining time.Duration, opts ...Option) *Timer {
	t := &Timer{
		interval:  time.Second,
		step:      time.Second,
		remaining: max(remaining, 0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start launches the ticker goroutine unless it is already running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return
	}

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
}

// Stop halts the ticker and waits for its goroutine to exit. Safe to call
// when not running.
func (t *Timer) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			t.remaining = max(t.remaining-t.step, 0)
			expired := t.remaining == 0
			t.mu.Unlock()
			if expired {
				return
			}
		}
	}
}

// Parts splits d into the day/hour/minute/second boxes of the display.
func Parts(d time.Duration) (days, hours, minutes, seconds int) {
	d = max(d, 0)
	total := int(d / time.Second)
	return total / 86400, total % 86400 / 3600, total % 3600 / 60, total % 60
}
