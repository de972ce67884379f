package socket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// serverBehavior scripts the test server's reaction to client frames.
type serverBehavior struct {
	// onConnect runs after the upgrade, before frames are read.
	onConnect func(conn *websocket.Conn)
	// ignorePings suppresses pong replies.
	ignorePings bool
	// noCloseEcho drops the connection read loop on close without answering.
	noCloseEcho bool
}

type testServer struct {
	*httptest.Server
	writeMu sync.Mutex
	mu      sync.Mutex
	frames  []*wire.Envelope
	headers http.Header
	conns   []*websocket.Conn
}

func newTestServer(t *testing.T, b serverBehavior) *testServer {
	t.Helper()
	ts := &testServer{}
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.headers = r.Header.Clone()
		ts.conns = append(ts.conns, conn)
		ts.mu.Unlock()

		if b.noCloseEcho {
			conn.SetCloseHandler(func(int, string) error { return nil })
		}
		if b.onConnect != nil {
			b.onConnect(conn)
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := wire.Decode(data)
			if err != nil {
				continue
			}
			ts.mu.Lock()
			ts.frames = append(ts.frames, env)
			ts.mu.Unlock()

			if env.Type == wire.TypePing && !b.ignorePings {
				ts.writeMu.Lock()
				_ = conn.WriteJSON(&wire.Envelope{ID: env.ID, Type: wire.TypePong})
				ts.writeMu.Unlock()
			}
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) url() string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func (ts *testServer) lastConn() *websocket.Conn {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.conns) == 0 {
		return nil
	}
	return ts.conns[len(ts.conns)-1]
}

// send writes v to the latest connection, serialized with pong replies.
func (ts *testServer) send(t *testing.T, v any) {
	t.Helper()
	ts.writeMu.Lock()
	defer ts.writeMu.Unlock()
	require.NoError(t, ts.lastConn().WriteJSON(v))
}

func (ts *testServer) sendClose(t *testing.T, code int, reason string) {
	t.Helper()
	ts.writeMu.Lock()
	defer ts.writeMu.Unlock()
	require.NoError(t, ts.lastConn().WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason)))
}

func (ts *testServer) framesOfType(typ string) []*wire.Envelope {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	var out []*wire.Envelope
	for _, f := range ts.frames {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func fastOptions() Options {
	return Options{
		Token:           "token-1",
		PingInterval:    50 * time.Millisecond,
		PongTimeout:     30 * time.Millisecond,
		ForceCloseDelay: 50 * time.Millisecond,
		Headers:         map[string]string{"X-Client": "mercury-test"},
	}
}

type closeRecorder struct {
	ch chan [2]any
	n  atomic.Int32
}

func newCloseRecorder() *closeRecorder {
	return &closeRecorder{ch: make(chan [2]any, 4)}
}

func (r *closeRecorder) fn(code int, reason string) {
	r.n.Add(1)
	r.ch <- [2]any{code, reason}
}

func (r *closeRecorder) wait(t *testing.T) (int, string) {
	t.Helper()
	select {
	case got := <-r.ch:
		return got[0].(int), got[1].(string)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
		return 0, ""
	}
}

func TestOpenAuthorizesAndResolvesOnPong(t *testing.T) {
	srv := newTestServer(t, serverBehavior{})
	c := New(fastOptions())

	err := c.Open(context.Background(), srv.url(), Listener{})
	require.NoError(t, err)
	defer c.Close(0, "")

	auth := srv.framesOfType(wire.TypeAuthorization)
	require.Len(t, auth, 1)
	assert.Equal(t, "token-1", auth[0].Data["token"])
	assert.Equal(t, "mercury_"+c.ID(), auth[0].TrackingID)
	assert.NotEmpty(t, srv.framesOfType(wire.TypePing))
	assert.Equal(t, "mercury-test", srv.headers.Get("X-Client"))
	assert.Equal(t, srv.url(), c.URL())
}

func TestOpenTwice(t *testing.T) {
	srv := newTestServer(t, serverBehavior{})
	c := New(fastOptions())
	require.NoError(t, c.Open(context.Background(), srv.url(), Listener{}))
	defer c.Close(0, "")

	assert.ErrorIs(t, c.Open(context.Background(), srv.url(), Listener{}), ErrAlreadyOpened)
}

func TestOpenMapsHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrNotAuthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusServiceUnavailable, ErrUnknownResponse},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := New(fastOptions())
			err := c.Open(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), Listener{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpenMapsHandshakeCloseCodes(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{4400, ErrBadRequest},
		{4401, ErrNotAuthorized},
		{4403, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code-4000), func(t *testing.T) {
			srv := newTestServer(t, serverBehavior{
				ignorePings: true,
				onConnect: func(conn *websocket.Conn) {
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(tt.code, "nope"))
				},
			})

			c := New(fastOptions())
			err := c.Open(context.Background(), srv.url(), Listener{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpenNetworkFailure(t *testing.T) {
	c := New(fastOptions())
	err := c.Open(context.Background(), "ws://127.0.0.1:1/unreachable", Listener{})

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "ws://127.0.0.1:1/unreachable", connErr.URL)
}

func TestOpenFailsWithoutPong(t *testing.T) {
	srv := newTestServer(t, serverBehavior{ignorePings: true})
	rec := newCloseRecorder()

	c := New(fastOptions())
	err := c.Open(context.Background(), srv.url(), Listener{OnClose: rec.fn})

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, ReasonPongNotReceived, connErr.Reason)
	assert.Equal(t, int32(0), rec.n.Load(), "no close is reported for a failed open")
}

func TestOpenHonorsContext(t *testing.T) {
	srv := newTestServer(t, serverBehavior{ignorePings: true})
	opts := fastOptions()
	opts.PongTimeout = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := New(opts)
	err := c.Open(ctx, srv.url(), Listener{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMessagesDeliveredInOrder(t *testing.T) {
	srv := newTestServer(t, serverBehavior{})

	var mu sync.Mutex
	var got []string
	received := make(chan struct{}, 3)
	mismatch := make(chan [2]int64, 1)

	c := New(fastOptions())
	require.NoError(t, c.Open(context.Background(), srv.url(), Listener{
		OnMessage: func(env *wire.Envelope) {
			mu.Lock()
			got = append(got, env.EventType())
			mu.Unlock()
			received <- struct{}{}
		},
		OnSequenceMismatch: func(expected, actual int64) {
			mismatch <- [2]int64{expected, actual}
		},
	}))
	defer c.Close(0, "")

	for i, seq := range []int64{1, 2, 5} {
		s := seq
		srv.send(t, &wire.Envelope{
			ID:             "m" + string(rune('a'+i)),
			SequenceNumber: &s,
			Data:           map[string]any{"eventType": "conversation.activity" + string(rune('0'+i))},
		})
	}

	for i := 0; i < 3; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}

	mu.Lock()
	assert.Equal(t, []string{"conversation.activity0", "conversation.activity1", "conversation.activity2"}, got)
	mu.Unlock()

	select {
	case m := <-mismatch:
		assert.Equal(t, [2]int64{3, 5}, m)
	case <-time.After(time.Second):
		t.Fatal("expected sequence mismatch")
	}
}

func TestRemoteCloseReported(t *testing.T) {
	srv := newTestServer(t, serverBehavior{})
	rec := newCloseRecorder()

	c := New(fastOptions())
	require.NoError(t, c.Open(context.Background(), srv.url(), Listener{OnClose: rec.fn}))

	srv.sendClose(t, 4000, "replaced")

	code, reason := rec.wait(t)
	assert.Equal(t, 4000, code)
	assert.Equal(t, "replaced", reason)
}

func TestLocalCloseReportsOwnReason(t *testing.T) {
	srv := newTestServer(t, serverBehavior{})
	rec := newCloseRecorder()

	c := New(fastOptions())
	require.NoError(t, c.Open(context.Background(), srv.url(), Listener{OnClose: rec.fn}))

	require.NoError(t, c.Close(3050, "logout"))
	code, reason := rec.wait(t)
	assert.Equal(t, 3050, code)
	assert.Equal(t, "logout", reason)

	// Second close is a no-op and no second notification arrives.
	require.NoError(t, c.Close(1000, "again"))
	<-c.Done()
	assert.Equal(t, int32(1), rec.n.Load())
}

func TestCloseForcedWhenPeerSilent(t *testing.T) {
	srv := newTestServer(t, serverBehavior{noCloseEcho: true})
	rec := newCloseRecorder()

	c := New(fastOptions())
	require.NoError(t, c.Open(context.Background(), srv.url(), Listener{OnClose: rec.fn}))

	require.NoError(t, c.Close(0, ""))
	code, reason := rec.wait(t)
	assert.Equal(t, websocket.CloseNormalClosure, code)
	assert.Equal(t, ReasonForced, reason)
}

func TestLatencyReported(t *testing.T) {
	srv := newTestServer(t, serverBehavior{})
	latency := make(chan time.Duration, 8)

	c := New(fastOptions())
	require.NoError(t, c.Open(context.Background(), srv.url(), Listener{
		OnPingPongLatency: func(d time.Duration) {
			select {
			case latency <- d:
			default:
			}
		},
	}))
	defer c.Close(0, "")

	select {
	case d := <-latency:
		assert.Greater(t, d, time.Duration(0))
	case <-time.After(time.Second):
		t.Fatal("no latency reported")
	}
}

func TestCloseBeforeOpen(t *testing.T) {
	c := New(fastOptions())
	assert.ErrorIs(t, c.Close(0, ""), ErrNotOpen)
}

func TestConnectionErrorMessage(t *testing.T) {
	err := &ConnectionError{URL: "wss://x", Err: errors.New("refused")}
	assert.Contains(t, err.Error(), "refused")
	assert.ErrorIs(t, err, err.Err)

	err = &ConnectionError{URL: "wss://x", Code: 1006}
	assert.Contains(t, err.Error(), "1006")
}
