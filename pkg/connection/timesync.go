package connection

import (
	"sync"
	"time"

	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// TimeSync tracks the offset between the local clock and the server's
// write timestamps. It is diagnostic only.
type TimeSync struct {
	clock Clock

	mu     sync.RWMutex
	offset time.Duration
	valid  bool
}

// NewTimeSync creates a TimeSync. A nil clock uses RealClock.
func NewTimeSync(clock Clock) *TimeSync {
	if clock == nil {
		clock = RealClock()
	}
	return &TimeSync{clock: clock}
}

// Observe updates the offset from env's write timestamp. Envelopes without
// a positive timestamp leave the previous offset untouched.
func (t *TimeSync) Observe(env *wire.Envelope) bool {
	if env == nil {
		return false
	}
	ts, ok := env.WriteTimestamp()
	if !ok {
		return false
	}
	t.ObserveTimestamp(ts)
	return true
}

// ObserveTimestamp sets offset = now - ts.
func (t *TimeSync) ObserveTimestamp(ts time.Time) {
	offset := t.clock.Now().Sub(ts)

	t.mu.Lock()
	t.offset = offset
	t.valid = true
	t.mu.Unlock()
}

// Offset returns the last computed offset. ok is false until one
// timestamp was observed.
func (t *TimeSync) Offset() (offset time.Duration, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.offset, t.valid
}
