package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mercury-transport/mercury-go/pkg/events"
	"github.com/mercury-transport/mercury-go/pkg/socket"
	"github.com/mercury-transport/mercury-go/pkg/wire"
)

const testURL = "wss://mercury.example.com/v1/events"

type closeCall struct {
	code   int
	reason string
}

// fakeSocket stands in for *socket.Conn. Open results are scripted by its
// factory; Close answers asynchronously like a peer echoing the frame.
type fakeSocket struct {
	id   string
	opts socket.Options
	f    *fakeFactory

	// read serializes deliver and peerClose like a socket's single read
	// loop.
	read sync.Mutex

	mu       sync.Mutex
	url      string
	listener socket.Listener
	open     bool
	finished bool
	closes   []closeCall
}

func (s *fakeSocket) ID() string { return s.id }

func (s *fakeSocket) Open(ctx context.Context, url string, l socket.Listener) error {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()

	err := s.f.nextResult()
	s.f.opened <- s

	if hold := s.f.currentHold(); hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.open = true
	s.mu.Unlock()
	return nil
}

func (s *fakeSocket) Close(code int, reason string) error {
	if code == 0 {
		code, reason = 1000, "Done"
	}
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return socket.ErrNotOpen
	}
	s.closes = append(s.closes, closeCall{code, reason})
	s.mu.Unlock()

	go s.peerClose(code, reason)
	return nil
}

func (s *fakeSocket) RemoveAllListeners() {
	s.mu.Lock()
	s.listener = socket.Listener{}
	s.mu.Unlock()
}

// peerClose reports a close the way the read loop does, at most once.
func (s *fakeSocket) peerClose(code int, reason string) {
	s.read.Lock()
	defer s.read.Unlock()

	s.mu.Lock()
	if s.finished || !s.open {
		s.mu.Unlock()
		return
	}
	s.finished = true
	l := s.listener
	s.mu.Unlock()

	if l.OnClose != nil {
		l.OnClose(code, reason)
	}
}

func (s *fakeSocket) deliver(env *wire.Envelope) {
	s.read.Lock()
	defer s.read.Unlock()
	if l := s.currentListener(); l.OnMessage != nil {
		l.OnMessage(env)
	}
}

func (s *fakeSocket) currentListener() socket.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener
}

func (s *fakeSocket) openedURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

func (s *fakeSocket) closeCalls() []closeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]closeCall(nil), s.closes...)
}

// fakeFactory hands out fakeSockets. The n-th Open returns results[n-1];
// opens past the end succeed.
type fakeFactory struct {
	mu      sync.Mutex
	results []error
	sockets []*fakeSocket
	hold    chan struct{}
	opened  chan *fakeSocket
}

func newFakeFactory(results ...error) *fakeFactory {
	return &fakeFactory{
		results: results,
		opened:  make(chan *fakeSocket, 64),
	}
}

func (f *fakeFactory) New(opts socket.Options) Socket {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeSocket{id: fmt.Sprintf("sock-%d", len(f.sockets)+1), opts: opts, f: f}
	f.sockets = append(f.sockets, s)
	return s
}

func (f *fakeFactory) nextResult() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) == 0 {
		return nil
	}
	err := f.results[0]
	f.results = f.results[1:]
	return err
}

// block makes every Open wait until the returned release is called.
func (f *fakeFactory) block() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hold := make(chan struct{})
	f.hold = hold
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.hold = nil
			f.mu.Unlock()
			close(hold)
		})
	}
}

func (f *fakeFactory) currentHold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hold
}

func (f *fakeFactory) opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sockets)
}

func (f *fakeFactory) socket(i int) *fakeSocket {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sockets[i]
}

// waitOpen returns the next socket whose Open was called.
func (f *fakeFactory) waitOpen(t *testing.T) *fakeSocket {
	t.Helper()
	select {
	case s := <-f.opened:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no socket opened")
		return nil
	}
}

// eventLog records emitted lifecycle events in order.
type eventLog struct {
	mu       sync.Mutex
	names    []string
	payloads map[string][]any
}

var lifecycleEvents = []string{
	events.EventOnline,
	events.EventOffline,
	events.EventOfflinePermanent,
	events.EventOfflineReplaced,
	events.EventOfflineTransient,
	events.EventConnectionFailed,
	events.EventSequenceMismatch,
	events.EventPingPongLatency,
	events.EventShutdownImminent,
	events.EventShutdownSwitchoverComplete,
	events.EventShutdownSwitchoverFailed,
}

func recordEvents(em *events.Emitter) *eventLog {
	l := &eventLog{payloads: make(map[string][]any)}
	for _, name := range lifecycleEvents {
		name := name
		em.On(name, func(p any) {
			l.mu.Lock()
			l.names = append(l.names, name)
			l.payloads[name] = append(l.payloads[name], p)
			l.mu.Unlock()
		})
	}
	return l
}

func (l *eventLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.payloads[name])
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

func (l *eventLog) last(name string) any {
	l.mu.Lock()
	defer l.mu.Unlock()
	ps := l.payloads[name]
	if len(ps) == 0 {
		return nil
	}
	return ps[len(ps)-1]
}

// waitCount blocks until name was emitted at least n times.
func (l *eventLog) waitCount(t *testing.T, name string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return l.count(name) >= n },
		2*time.Second, time.Millisecond, "waiting for %d x %s, got %v", n, name, l.all())
}

type harness struct {
	m     *Manager
	clock *manualClock
	f     *fakeFactory
	ev    *eventLog
}

func newHarness(t *testing.T, cfg Config, deps Dependencies, results ...error) *harness {
	t.Helper()
	clock := newManualClock()
	f := newFakeFactory(results...)
	deps.Clock = clock
	deps.SocketFactory = f.New

	m := NewManager(cfg, deps)
	h := &harness{m: m, clock: clock, f: f, ev: recordEvents(m.Events())}
	t.Cleanup(m.Close)
	return h
}

// connect opens the first socket and returns it.
func (h *harness) connect(t *testing.T) *fakeSocket {
	t.Helper()
	require.NoError(t, h.m.Connect(context.Background(), testURL))
	return h.f.waitOpen(t)
}

func connectAsync(m *Manager, url string) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- m.Connect(context.Background(), url) }()
	return ch
}

var errNoResult = errors.New("no result")

func waitResult(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not return")
		return errNoResult
	}
}

func shutdownNotice() *wire.Envelope {
	return &wire.Envelope{ID: "shutdown-1", Type: wire.TypeShutdown}
}

func connErr() error {
	return &socket.ConnectionError{URL: testURL, Code: 1006, Err: errors.New("connection refused")}
}
