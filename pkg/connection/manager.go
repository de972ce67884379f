package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mercury-transport/mercury-go/pkg/events"
	"github.com/mercury-transport/mercury-go/pkg/log"
	"github.com/mercury-transport/mercury-go/pkg/router"
	"github.com/mercury-transport/mercury-go/pkg/socket"
	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// Single-flight keys.
const (
	flightConnect    = "connect"
	flightDisconnect = "disconnect"
)

// Manager owns the active socket of one client session and keeps it alive.
//
// Connect and Disconnect are single-flight: concurrent callers share the
// in-flight operation. Transient closes of the active socket reconnect
// automatically; an imminent-shutdown notice opens a replacement socket
// before the current one goes away.
type Manager struct {
	cfg    Config
	logger *slog.Logger
	evlog  log.Logger

	newSocket SocketFactory
	registrar Registrar
	creds     CredentialRefresher
	hosts     HostCatalog
	clock     Clock
	router    *router.Router
	emitter   *events.Emitter
	timeSync  *TimeSync
	shutdown  *ShutdownCoordinator

	flight singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// active is only written with mu held.
	active atomic.Pointer[session]

	mu               sync.Mutex
	url              string
	connected        bool
	connecting       bool
	hasEverConnected bool
	disconnecting    bool
	closed           bool
	// epoch counts Disconnect calls. Connect and switchover loops started
	// under an older epoch must not install a socket.
	epoch            uint64
	lastErr          error
	reconnect        *RetryContext
}

// session is one socket owned by the manager.
type session struct {
	sock   Socket
	url    string
	inbox  *inbox
	gone   atomic.Bool
	closed chan struct{}
	once   sync.Once
}

func (s *session) markClosed() {
	s.once.Do(func() { close(s.closed) })
}

// NewManager creates a manager. Nothing is opened until Connect.
func NewManager(cfg Config, deps Dependencies) *Manager {
	cfg = cfg.withDefaults()

	clock := deps.Clock
	if clock == nil {
		clock = RealClock()
	}
	emitter := deps.Emitter
	if emitter == nil {
		emitter = events.NewEmitter(cfg.Logger)
	}
	r := deps.Router
	if r == nil {
		r = router.New(emitter, cfg.Logger)
	}
	factory := deps.SocketFactory
	if factory == nil {
		factory = DefaultSocketFactory
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:       cfg,
		logger:    cfg.Logger,
		evlog:     cfg.EventLogger,
		newSocket: factory,
		registrar: deps.Registrar,
		creds:     deps.Credentials,
		hosts:     deps.Hosts,
		clock:     clock,
		router:    r,
		emitter:   emitter,
		timeSync:  NewTimeSync(clock),
		shutdown:  NewShutdownCoordinator(clock, cfg.Logger),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Connect opens the channel. It returns immediately when already
// connected. An empty url reuses the previous one, or the registrar's.
func (m *Manager) Connect(ctx context.Context, url string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if m.connected {
		m.mu.Unlock()
		return nil
	}
	if url != "" {
		m.url = url
	}
	m.mu.Unlock()

	ch := m.flight.DoChan(flightConnect, func() (any, error) {
		return nil, m.connect()
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) connect() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if m.connected {
		m.mu.Unlock()
		return nil
	}
	m.connecting = true
	firstEver := !m.hasEverConnected
	epoch := m.epoch
	m.mu.Unlock()

	m.logState(log.StateEntityConnection, "disconnected", "connecting", "", 0)

	if m.registrar != nil {
		if err := m.registrar.EnsureRegistered(m.ctx); err != nil {
			m.recordError(err)
			m.connectFailed(err, 0)
			return err
		}
	}

	// The normal loop supersedes a running switchover.
	m.shutdown.Abort()

	cfg := m.cfg.retryConfig(firstEver)
	cfg.OnFailure = m.attemptFailed("connect")
	rc := NewRetryContext(cfg, m.clock, func(ctx context.Context, attempt int) error {
		s, err := m.attempt(ctx, attempt)
		if err != nil {
			return err
		}
		return m.activate(s, epoch)
	})

	m.mu.Lock()
	if m.disconnecting || m.closed || m.epoch != epoch {
		m.mu.Unlock()
		m.connectFailed(ErrAborted, 0)
		return ErrAborted
	}
	m.reconnect = rc
	m.mu.Unlock()

	err := rc.Run(m.ctx)

	m.mu.Lock()
	if m.reconnect == rc {
		m.reconnect = nil
	}
	m.mu.Unlock()

	if err != nil {
		m.connectFailed(err, rc.Attempts())
		return err
	}
	return nil
}

func (m *Manager) connectFailed(err error, attempts int) {
	m.mu.Lock()
	m.connecting = false
	m.mu.Unlock()

	if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
		m.logger.Info("connect aborted", "attempts", attempts)
		m.logState(log.StateEntityConnection, "connecting", "disconnected", "aborted", attempts)
		return
	}

	m.logger.Warn("connect failed", "attempts", attempts, "error", err)
	m.logState(log.StateEntityConnection, "connecting", "failed", err.Error(), attempts)
	m.emitter.Emit(events.EventConnectionFailed, events.ConnectionFailedEvent{Err: err, Attempts: attempts})
}

// activate makes s the active socket after a successful normal attempt
// unless a Disconnect happened since the loop started.
func (m *Manager) activate(s *session, epoch uint64) error {
	m.mu.Lock()
	if m.disconnecting || m.closed || m.epoch != epoch {
		m.mu.Unlock()
		_ = s.sock.Close(0, "")
		return Unrecoverable(ErrAborted)
	}
	if s.gone.Load() {
		m.mu.Unlock()
		return ErrSocketClosed
	}
	m.active.Store(s)
	m.connected = true
	m.connecting = false
	m.hasEverConnected = true
	m.mu.Unlock()

	m.logger.Info("connected", "conn_id", s.sock.ID(), "url", s.url)
	m.logState(log.StateEntityConnection, "connecting", "connected", "", 0)
	m.emitter.Emit(events.EventOnline, nil)
	return nil
}

// Disconnect cancels any retry loop, closes the active socket and returns
// once its offline transition was emitted. It returns immediately when no
// socket is open.
func (m *Manager) Disconnect(ctx context.Context, opts CloseOptions) error {
	ch := m.flight.DoChan(flightDisconnect, func() (any, error) {
		return nil, m.disconnect(opts)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) disconnect(opts CloseOptions) error {
	m.mu.Lock()
	m.disconnecting = true
	m.epoch++
	rc := m.reconnect
	m.reconnect = nil
	s := m.active.Load()
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.disconnecting = false
		m.mu.Unlock()
	}()

	if rc != nil {
		rc.Abort()
	}
	m.shutdown.Abort()

	if s == nil {
		return nil
	}

	m.logger.Info("disconnecting", "conn_id", s.sock.ID(), "code", opts.Code, "reason", opts.Reason)
	if err := s.sock.Close(opts.Code, opts.Reason); err != nil {
		m.logger.Debug("socket close failed", "conn_id", s.sock.ID(), "error", err)
	}
	// A read loop blocked on a full inbox cannot see the peer's close.
	s.inbox.close()
	<-s.closed
	return nil
}

// Logout disconnects. A reason outside the reconnect allow-list is sent
// with close code 3050 so the close is permanent. An empty reason falls
// back to BeforeLogoutOptionsCloseReason.
func (m *Manager) Logout(ctx context.Context, reason string) error {
	if reason == "" {
		reason = m.cfg.BeforeLogoutOptionsCloseReason
	}
	opts := CloseOptions{}
	if reason != "" && !IsReconnectReason(reason) {
		opts = CloseOptions{Code: CloseLogout, Reason: reason}
	}
	return m.Disconnect(ctx, opts)
}

// Close disconnects and stops background work. The manager cannot be
// reused.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	_ = m.Disconnect(context.Background(), CloseOptions{})
	m.cancel()
	m.shutdown.Wait()
	m.wg.Wait()
}

// LastError returns the most recent connection error.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// State returns a snapshot of the connection flags.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Connected:        m.connected,
		Connecting:       m.connecting,
		HasEverConnected: m.hasEverConnected,
	}
}

// TimeOffset returns local time minus the last server write timestamp.
func (m *Manager) TimeOffset() (time.Duration, bool) {
	return m.timeSync.Offset()
}

// Events returns the emitter carrying lifecycle and envelope events.
func (m *Manager) Events() *events.Emitter {
	return m.emitter
}

// Router returns the router used for inbound envelopes.
func (m *Manager) Router() *router.Router {
	return m.router
}

// ActiveSocketID returns the ID of the active socket, or "".
func (m *Manager) ActiveSocketID() string {
	if s := m.active.Load(); s != nil {
		return s.sock.ID()
	}
	return ""
}

func (m *Manager) isActive(s *session) bool {
	return m.active.Load() == s
}

func (m *Manager) listener(s *session) socket.Listener {
	return socket.Listener{
		OnMessage: func(env *wire.Envelope) { m.onMessage(s, env) },
		OnPong:    func(env *wire.Envelope) { m.timeSync.Observe(env) },
		OnClose:   func(code int, reason string) { m.onClose(s, code, reason) },
		OnSequenceMismatch: func(expected, actual int64) {
			if m.isActive(s) {
				m.emitter.Emit(events.EventSequenceMismatch, events.SequenceMismatchEvent{Expected: expected, Actual: actual})
			}
		},
		OnPingPongLatency: func(latency time.Duration) {
			if m.isActive(s) {
				m.emitter.Emit(events.EventPingPongLatency, events.LatencyEvent{Latency: latency})
			}
		},
	}
}

func (m *Manager) onMessage(s *session, env *wire.Envelope) {
	m.timeSync.Observe(env)

	if env.IsShutdown() {
		if !m.isActive(s) {
			m.logger.Debug("shutdown notice on inactive socket ignored", "conn_id", s.sock.ID())
			return
		}
		m.logger.Info("server shutdown imminent", "conn_id", s.sock.ID())
		m.emitter.Emit(events.EventShutdownImminent, env)
		m.startSwitchover()
		return
	}

	s.inbox.push(env)
}

func (m *Manager) onClose(s *session, code int, reason string) {
	if !s.gone.CompareAndSwap(false, true) {
		return
	}
	defer s.markClosed()
	s.inbox.close()
	s.sock.RemoveAllListeners()

	m.mu.Lock()
	active := m.active.Load() == s
	if active {
		m.active.Store(nil)
		m.connected = false
	}
	suppress := m.disconnecting || m.closed
	m.mu.Unlock()

	outcome := Classify(code, reason, active)
	m.logger.Info("socket closed",
		"conn_id", s.sock.ID(),
		"code", code,
		"reason", reason,
		"active", active,
		"outcome", outcome.String())

	if !active {
		if outcome == OutcomeReplaced {
			m.emitter.Emit(events.EventOfflineReplaced, events.OfflineEvent{Code: code, Reason: reason})
		}
		return
	}

	// Nothing is left for a running switchover to replace.
	m.shutdown.Abort()

	m.logState(log.StateEntityConnection, "connected", "offline", outcome.String(), 0)
	payload := events.OfflineEvent{Code: code, Reason: reason}
	m.emitter.Emit(outcome.Event(), payload)
	m.emitter.Emit(events.EventOffline, payload)

	if outcome.Reconnect() && !suppress {
		m.scheduleReconnect()
	}
}

func (m *Manager) scheduleReconnect() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info("scheduling reconnect")
	go func() {
		defer m.wg.Done()
		_, _, _ = m.flight.Do(flightConnect, func() (any, error) {
			return nil, m.connect()
		})
	}()
}

func (m *Manager) startSwitchover() {
	m.mu.Lock()
	if m.closed || m.disconnecting {
		m.mu.Unlock()
		return
	}
	epoch := m.epoch
	m.mu.Unlock()

	cfg := m.cfg.retryConfig(false)
	cfg.OnFailure = m.attemptFailed("switchover")
	probe := func(ctx context.Context, attempt int) error {
		s, err := m.attempt(ctx, attempt)
		if err != nil {
			return err
		}
		return m.swap(s, epoch)
	}
	if m.shutdown.Trigger(m.ctx, cfg, probe, m.switchoverDone) {
		m.logState(log.StateEntitySwitchover, "idle", "connecting", "shutdown", 0)
	}
}

// swap replaces the active socket in one step; connected stays true. The
// old socket is left for the server to close.
func (m *Manager) swap(s *session, epoch uint64) error {
	m.mu.Lock()
	old := m.active.Load()
	if old == nil || m.disconnecting || m.closed || m.epoch != epoch {
		m.mu.Unlock()
		_ = s.sock.Close(0, "")
		return Unrecoverable(ErrSwitchoverStale)
	}
	if s.gone.Load() {
		m.mu.Unlock()
		return ErrSocketClosed
	}
	m.active.Store(s)
	m.mu.Unlock()

	m.logger.Info("switchover complete", "old_conn_id", old.sock.ID(), "conn_id", s.sock.ID())
	return nil
}

func (m *Manager) switchoverDone(attempts int, err error) {
	if err == nil {
		url := ""
		if s := m.active.Load(); s != nil {
			url = s.url
		}
		m.logState(log.StateEntitySwitchover, "connecting", "complete", "", attempts)
		m.emitter.Emit(events.EventShutdownSwitchoverComplete, events.SwitchoverEvent{URL: url, Attempts: attempts})
		return
	}

	if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
		m.logger.Info("switchover aborted", "attempts", attempts)
		m.logState(log.StateEntitySwitchover, "connecting", "aborted", "", attempts)
		return
	}

	m.logger.Warn("switchover failed", "attempts", attempts, "error", err)
	m.logState(log.StateEntitySwitchover, "connecting", "failed", err.Error(), attempts)
	m.emitter.Emit(events.EventShutdownSwitchoverFailed, events.SwitchoverEvent{Attempts: attempts, Err: err})
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) logState(entity log.StateEntity, oldState, newState, reason string, attempt int) {
	m.evlog.Log(log.StateChange(m.ActiveSocketID(), entity, oldState, newState, reason, attempt))
}
