package connection

import (
	"context"
	"log/slog"
	"sync"
)

// ShutdownCoordinator runs at most one switchover at a time. A switchover
// is a RetryContext whose probe opens and installs a replacement socket
// while the current one keeps delivering.
type ShutdownCoordinator struct {
	clock  Clock
	logger *slog.Logger

	mu      sync.Mutex
	current *RetryContext
	wg      sync.WaitGroup
}

// NewShutdownCoordinator creates a coordinator. A nil clock uses RealClock.
func NewShutdownCoordinator(clock Clock, logger *slog.Logger) *ShutdownCoordinator {
	if clock == nil {
		clock = RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShutdownCoordinator{clock: clock, logger: logger}
}

// Trigger starts a switchover in the background unless one is in flight.
// done is called once with the attempt count and the loop's result. It
// reports whether a new switchover was started.
func (s *ShutdownCoordinator) Trigger(ctx context.Context, cfg RetryConfig, probe Probe, done func(attempts int, err error)) bool {
	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		s.logger.Info("switchover already in progress, ignoring shutdown notice")
		return false
	}
	rc := NewRetryContext(cfg, s.clock, probe)
	s.current = rc
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		err := rc.Run(ctx)

		s.mu.Lock()
		if s.current == rc {
			s.current = nil
		}
		s.mu.Unlock()

		if done != nil {
			done(rc.Attempts(), err)
		}
	}()
	return true
}

// Abort cancels the in-flight switchover, if any.
func (s *ShutdownCoordinator) Abort() {
	s.mu.Lock()
	rc := s.current
	s.current = nil
	s.mu.Unlock()

	if rc != nil {
		rc.Abort()
	}
}

// InFlight reports whether a switchover is running.
func (s *ShutdownCoordinator) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Wait blocks until every started switchover goroutine has returned.
func (s *ShutdownCoordinator) Wait() {
	s.wg.Wait()
}
