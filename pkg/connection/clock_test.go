package connection

import (
	"sync"
	"testing"
	"time"
)

// manualClock fires AfterFunc callbacks only when advanced.
type manualClock struct {
	mu        sync.Mutex
	now       time.Time
	timers    []*manualTimer
	scheduled chan time.Duration
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{
		now:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		scheduled: make(chan time.Duration, 64),
	}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	c.mu.Unlock()

	c.scheduled <- d
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs every timer that became due.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// nextDelay waits until a timer is scheduled and returns its delay.
func (c *manualClock) nextDelay(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-c.scheduled:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no timer scheduled")
		return 0
	}
}

// fireNext waits for the next timer and advances the clock past it.
func (c *manualClock) fireNext(t *testing.T) time.Duration {
	t.Helper()
	d := c.nextDelay(t)
	c.Advance(d)
	return d
}

// pending returns the number of timers neither fired nor stopped.
func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
