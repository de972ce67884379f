package connection

import (
	"math/rand"
	"sync"
	"time"
)

// Backoff defaults, matching backoffTimeReset and backoffTimeMax.
const (
	// InitialBackoff is the first scheduled delay.
	InitialBackoff = 1 * time.Second

	// MaxBackoff caps every delay.
	MaxBackoff = 32 * time.Second

	// BackoffMultiplier is the factor by which backoff increases.
	BackoffMultiplier = 2.0
)

// Delay returns the k-th (0-indexed) scheduled delay without jitter:
// min(initial * 2^k, max).
func Delay(initial, max time.Duration, k int) time.Duration {
	if initial <= 0 {
		initial = InitialBackoff
	}
	if max < initial {
		max = initial
	}
	d := initial
	for i := 0; i < k; i++ {
		if d >= max/2 {
			return max
		}
		d *= 2
	}
	if d > max {
		return max
	}
	return d
}

// Backoff calculates exponential backoff delays with optional jitter.
type Backoff struct {
	mu sync.Mutex

	initial time.Duration
	max     time.Duration
	jitter  float64

	// Attempt counter
	attempts int

	// Random source for jitter
	rng *rand.Rand
}

// BackoffConfig allows customizing backoff parameters.
type BackoffConfig struct {
	Initial time.Duration
	Max     time.Duration

	// Jitter adds up to Jitter*delay on top of each delay. Zero keeps the
	// sequence deterministic.
	Jitter float64
}

// NewBackoff creates a backoff calculator with default settings.
func NewBackoff() *Backoff {
	return NewBackoffWithConfig(BackoffConfig{})
}

// NewBackoffWithConfig creates a backoff calculator with custom settings.
func NewBackoffWithConfig(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialBackoff
	}
	if cfg.Max <= 0 {
		cfg.Max = MaxBackoff
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}

	return &Backoff{
		initial: cfg.Initial,
		max:     cfg.Max,
		jitter:  cfg.Jitter,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next delay (with jitter) and advances the backoff.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.addJitter(Delay(b.initial, b.max, b.attempts))
	b.attempts++
	return delay
}

// Peek returns the next delay without advancing.
func (b *Backoff) Peek() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Delay(b.initial, b.max, b.attempts)
}

// Reset resets the backoff to initial values.
// Call this after a successful connection.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

func (b *Backoff) addJitter(d time.Duration) time.Duration {
	if b.jitter <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*b.jitter*b.rng.Float64())
}

// BackoffSequence returns the first n delays for the given bounds.
func BackoffSequence(initial, max time.Duration, n int) []time.Duration {
	seq := make([]time.Duration, n)
	for k := range seq {
		seq[k] = Delay(initial, max, k)
	}
	return seq
}
