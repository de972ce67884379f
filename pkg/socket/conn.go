package socket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mercury-transport/mercury-go/pkg/log"
	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// ReasonForced is reported when the peer never answered a local close.
const ReasonForced = "Done (forced)"

// Conn is a single mercury socket. It is safe for concurrent use.
type Conn struct {
	id     string
	opts   Options
	logger *slog.Logger
	evlog  log.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	conn      *websocket.Conn
	url       string
	listener  Listener
	opened    bool
	finished  bool
	local     *closeFrame
	forced    bool
	lastSeq   int64
	haveSeq   bool
	keepalive *keepAlive

	firstPong chan struct{}
	pongOnce  sync.Once
	done      chan struct{}
	closeCode int
	closeText string
}

type closeFrame struct {
	code   int
	reason string
}

// New creates an unopened socket with a fresh UUID.
func New(opts Options) *Conn {
	opts = opts.withDefaults()
	id := uuid.NewString()
	if opts.TrackingID == "" {
		opts.TrackingID = "mercury_" + id
	}
	return &Conn{
		id:        id,
		opts:      opts,
		logger:    opts.Logger.With("conn_id", id),
		evlog:     opts.EventLogger,
		firstPong: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// ID returns the socket's connection ID.
func (c *Conn) ID() string {
	return c.id
}

// URL returns the URL passed to Open.
func (c *Conn) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

// Latency returns the most recent ping round trip.
func (c *Conn) Latency() time.Duration {
	c.mu.Lock()
	ka := c.keepalive
	c.mu.Unlock()
	if ka == nil {
		return 0
	}
	return ka.latency()
}

// Open dials url, authorizes and waits for the first pong.
func (c *Conn) Open(ctx context.Context, url string, l Listener) error {
	c.mu.Lock()
	if c.conn != nil || c.finished {
		c.mu.Unlock()
		return ErrAlreadyOpened
	}
	c.url = url
	c.listener = l
	c.mu.Unlock()

	dialer := c.opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: c.opts.HandshakeTimeout,
		}
	}

	header := http.Header{}
	for k, v := range c.opts.Headers {
		header.Set(k, v)
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		c.markFinished()
		if resp != nil && errors.Is(err, websocket.ErrBadHandshake) {
			return statusError(resp.StatusCode)
		}
		return &ConnectionError{URL: url, Err: err}
	}

	c.mu.Lock()
	c.conn = conn
	c.keepalive = newKeepAlive(c.opts.PingInterval, c.opts.PongTimeout, uuid.NewString, c.sendPing, c.keepAliveFailed)
	c.keepalive.onLatency = c.reportLatency
	c.mu.Unlock()

	c.logger.Debug("websocket connected", "url", url)

	go c.readLoop()

	auth := wire.NewAuthorization(uuid.NewString(), c.opts.Token, c.opts.TrackingID)
	if err := c.writeEnvelope(auth); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			c.abort()
		}
		<-c.done
		if code, reason := c.closeDetails(); code != websocket.CloseAbnormalClosure {
			return closeError(url, code, reason)
		}
		return &ConnectionError{URL: url, Err: err}
	}
	c.evlog.Log(c.control(log.DirectionOut, log.ControlMsgAuthorization))

	c.keepalive.start()

	select {
	case <-c.firstPong:
	case <-c.done:
		code, reason := c.closeDetails()
		return closeError(url, code, reason)
	case <-ctx.Done():
		c.abort()
		<-c.done
		return ctx.Err()
	}

	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		code, reason := c.closeDetails()
		return closeError(url, code, reason)
	}
	c.opened = true
	c.mu.Unlock()

	return nil
}

// Close sends a close frame and waits up to ForceCloseDelay for the peer
// to answer before tearing the connection down. The listener is notified
// once the socket is fully closed. A zero code means 1000 "Done".
func (c *Conn) Close(code int, reason string) error {
	if code == 0 {
		code = websocket.CloseNormalClosure
		if reason == "" {
			reason = "Done"
		}
	}

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.local != nil || c.finished {
		c.mu.Unlock()
		return nil
	}
	c.local = &closeFrame{code: code, reason: reason}
	conn := c.conn
	c.mu.Unlock()

	c.evlog.Log(log.Close(c.id, log.DirectionOut, code, reason, true))

	c.writeMu.Lock()
	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(c.opts.WriteTimeout))
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Debug("close frame not sent", "error", err)
		c.force()
		return nil
	}

	time.AfterFunc(c.opts.ForceCloseDelay, func() {
		select {
		case <-c.done:
		default:
			c.force()
		}
	})
	return nil
}

// RemoveAllListeners detaches the listener. Events after this call are
// dropped.
func (c *Conn) RemoveAllListeners() {
	c.mu.Lock()
	c.listener = Listener{}
	c.mu.Unlock()
}

// Done is closed when the socket has fully closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.finish(err)
			return
		}

		env, err := wire.Decode(data)
		if err != nil {
			c.logger.Debug("dropping undecodable frame", "error", err, "size", len(data))
			c.evlog.Log(log.Error(c.id, log.LayerWire, err, "decode", 0))
			continue
		}

		if env.IsPong() {
			c.handlePong(env)
			continue
		}

		c.evlog.Log(c.message(env, len(data)))
		c.trackSequence(env)

		if l := c.currentListener(); l.OnMessage != nil {
			l.OnMessage(env)
		}
	}
}

func (c *Conn) handlePong(env *wire.Envelope) {
	c.pongOnce.Do(func() { close(c.firstPong) })

	c.mu.Lock()
	ka := c.keepalive
	c.mu.Unlock()
	if ka != nil {
		ka.pongReceived(env.ID)
	}

	if l := c.currentListener(); l.OnPong != nil {
		l.OnPong(env)
	}
}

func (c *Conn) trackSequence(env *wire.Envelope) {
	if env.SequenceNumber == nil {
		return
	}
	seq := *env.SequenceNumber

	c.mu.Lock()
	expected := c.lastSeq + 1
	mismatch := c.haveSeq && seq != expected
	c.lastSeq = seq
	c.haveSeq = true
	c.mu.Unlock()

	if !mismatch {
		return
	}
	c.logger.Debug("sequence mismatch", "expected", expected, "actual", seq)
	if l := c.currentListener(); l.OnSequenceMismatch != nil {
		l.OnSequenceMismatch(expected, seq)
	}
}

func (c *Conn) reportLatency(latency time.Duration) {
	c.evlog.Log(log.Pong(c.id, latency))
	if l := c.currentListener(); l.OnPingPongLatency != nil {
		l.OnPingPongLatency(latency)
	}
}

func (c *Conn) sendPing(id string) error {
	c.evlog.Log(c.control(log.DirectionOut, log.ControlMsgPing))
	return c.writeEnvelope(wire.NewPing(id))
}

func (c *Conn) keepAliveFailed(reason string) {
	c.logger.Info("keep-alive failed", "reason", reason)
	_ = c.Close(websocket.CloseNormalClosure, reason)
}

func (c *Conn) writeEnvelope(env *wire.Envelope) error {
	data, err := wire.Encode(env)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotOpen
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// force tears the connection down without waiting for the peer. The read
// loop then reports the close.
func (c *Conn) force() {
	c.mu.Lock()
	c.forced = true
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// abort drops a half-open connection during Open.
func (c *Conn) abort() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (c *Conn) markFinished() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finished {
		c.finished = true
		close(c.done)
	}
}

// finish records the close details and notifies the listener once.
func (c *Conn) finish(readErr error) {
	code, reason := websocket.CloseAbnormalClosure, ""
	var ce *websocket.CloseError
	if errors.As(readErr, &ce) {
		code, reason = ce.Code, ce.Text
	}

	c.mu.Lock()
	switch {
	case ce != nil:
		// The peer echoes our code without the reason.
		if c.local != nil && ce.Code == c.local.code {
			reason = c.local.reason
		}
	case c.forced:
		code, reason = websocket.CloseNormalClosure, ReasonForced
	}
	c.closeCode, c.closeText = code, reason
	opened := c.opened
	ka := c.keepalive
	l := c.listener
	conn := c.conn
	c.mu.Unlock()

	if ka != nil {
		ka.stop()
	}
	if conn != nil {
		_ = conn.Close()
	}
	c.markFinished()

	c.logger.Debug("websocket closed", "code", code, "reason", reason)
	c.evlog.Log(log.Close(c.id, log.DirectionIn, code, reason, opened))

	if opened && l.OnClose != nil {
		l.OnClose(code, reason)
	}
}

func (c *Conn) closeDetails() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCode, c.closeText
}

func (c *Conn) currentListener() Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}

func (c *Conn) control(dir log.Direction, typ log.ControlMsgType) log.Event {
	ev := log.Control(c.id, dir, typ)
	ev.URL = c.url
	return ev
}

func (c *Conn) message(env *wire.Envelope, size int) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			ID:             env.ID,
			EventType:      env.EventType(),
			SequenceNumber: env.SequenceNumber,
			Size:           size,
			HasOverrides:   len(env.Headers) > 0,
		},
	}
}

func (c *Conn) String() string {
	return fmt.Sprintf("socket %s", c.id)
}
