package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Retry errors.
var (
	// ErrAborted is returned by Run after Abort.
	ErrAborted = errors.New("retry aborted")

	// ErrRetriesExhausted is returned by Run once the attempt ceiling is
	// reached. The last attempt's error is wrapped alongside it.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

type unrecoverableError struct {
	err error
}

func (e *unrecoverableError) Error() string { return e.err.Error() }
func (e *unrecoverableError) Unwrap() error { return e.err }

// Unrecoverable marks a probe error that stops the retry loop without
// further attempts.
func Unrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return &unrecoverableError{err: err}
}

// IsUnrecoverable reports whether err was marked with Unrecoverable.
func IsUnrecoverable(err error) bool {
	var u *unrecoverableError
	return errors.As(err, &u)
}

// Probe is one attempt. attempt starts at 1.
type Probe func(ctx context.Context, attempt int) error

// RetryConfig configures a RetryContext.
type RetryConfig struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  float64

	// MaxRetries is the number of retries after the first attempt.
	// Zero retries until Abort.
	MaxRetries int

	// OnFailure is called after every failed attempt with the delay before
	// the next one, or zero when the loop stops.
	OnFailure func(attempt int, err error, next time.Duration)
}

// RetryContext runs a probe with exponential backoff until it succeeds,
// fails unrecoverably, exhausts its ceiling or is aborted. The first
// attempt runs immediately; the k-th retry waits Delay(initial, max, k).
// A RetryContext is single use.
type RetryContext struct {
	cfg     RetryConfig
	clock   Clock
	backoff *Backoff
	probe   Probe

	mu       sync.Mutex
	attempts int
	started  bool
	aborted  bool
	timer    Timer
	cancel   context.CancelFunc
	abortCh  chan struct{}
	lastErr  error
}

// NewRetryContext creates a RetryContext. A nil clock uses RealClock.
func NewRetryContext(cfg RetryConfig, clock Clock, probe Probe) *RetryContext {
	if clock == nil {
		clock = RealClock()
	}
	return &RetryContext{
		cfg:     cfg,
		clock:   clock,
		backoff: NewBackoffWithConfig(BackoffConfig{Initial: cfg.Initial, Max: cfg.Max, Jitter: cfg.Jitter}),
		probe:   probe,
		abortCh: make(chan struct{}),
	}
}

// Run executes the loop and blocks until it settles.
func (r *RetryContext) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return errors.New("retry context already started")
	}
	r.started = true
	if r.aborted {
		r.mu.Unlock()
		return ErrAborted
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	for {
		r.mu.Lock()
		if r.aborted {
			r.mu.Unlock()
			return ErrAborted
		}
		r.attempts++
		attempt := r.attempts
		r.mu.Unlock()

		err := r.probe(ctx, attempt)
		if err == nil {
			return nil
		}

		r.mu.Lock()
		r.lastErr = err
		aborted := r.aborted
		r.mu.Unlock()

		switch {
		case aborted:
			return ErrAborted
		case ctx.Err() != nil:
			return ctx.Err()
		case IsUnrecoverable(err):
			r.failed(attempt, err, 0)
			return errors.Unwrap(err)
		case r.cfg.MaxRetries > 0 && attempt > r.cfg.MaxRetries:
			r.failed(attempt, err, 0)
			return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
		}

		delay := r.backoff.Next()
		r.failed(attempt, err, delay)

		if err := r.wait(ctx, delay); err != nil {
			return err
		}
	}
}

func (r *RetryContext) failed(attempt int, err error, next time.Duration) {
	if r.cfg.OnFailure != nil {
		r.cfg.OnFailure(attempt, err, next)
	}
}

func (r *RetryContext) wait(ctx context.Context, delay time.Duration) error {
	fire := make(chan struct{})

	r.mu.Lock()
	if r.aborted {
		r.mu.Unlock()
		return ErrAborted
	}
	r.timer = r.clock.AfterFunc(delay, func() { close(fire) })
	r.mu.Unlock()

	select {
	case <-fire:
		return nil
	case <-r.abortCh:
		return ErrAborted
	case <-ctx.Done():
		r.stopTimer()
		return ctx.Err()
	}
}

func (r *RetryContext) stopTimer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Abort cancels the pending timer and any running probe. Run returns
// ErrAborted. Abort is idempotent.
func (r *RetryContext) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.aborted {
		return
	}
	r.aborted = true
	close(r.abortCh)
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
	}
}

// Aborted reports whether Abort was called.
func (r *RetryContext) Aborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

// Attempts returns the number of attempts started so far.
func (r *RetryContext) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

// LastError returns the most recent probe error.
func (r *RetryContext) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
