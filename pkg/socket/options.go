package socket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mercury-transport/mercury-go/pkg/log"
	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// Defaults applied to zero Options fields.
const (
	DefaultPingInterval     = 15 * time.Second
	DefaultPongTimeout      = 14 * time.Second
	DefaultForceCloseDelay  = 2 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
)

// Options configures a Conn.
type Options struct {
	// Token is sent in the authorization frame after the upgrade.
	Token string

	// TrackingID correlates server logs with this socket. A random one is
	// generated when empty.
	TrackingID string

	// Headers are added to the upgrade request.
	Headers map[string]string

	PingInterval     time.Duration
	PongTimeout      time.Duration
	ForceCloseDelay  time.Duration
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration

	// Dialer overrides the websocket dialer, mainly for tests.
	Dialer *websocket.Dialer

	// Logger is used for operational logging. Defaults to slog.Default().
	Logger *slog.Logger

	// EventLogger receives transport and wire events. Optional.
	EventLogger log.Logger
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = DefaultPingInterval
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = DefaultPongTimeout
	}
	if o.ForceCloseDelay <= 0 {
		o.ForceCloseDelay = DefaultForceCloseDelay
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.EventLogger = log.OrNoop(o.EventLogger)
	return o
}

// Listener receives socket events. Nil callbacks are skipped. Callbacks run
// on the socket's read goroutine and must not block for long.
type Listener struct {
	// OnMessage receives every inbound envelope other than pongs.
	OnMessage func(env *wire.Envelope)

	// OnPong receives every pong envelope.
	OnPong func(env *wire.Envelope)

	// OnClose is called exactly once after a successful Open.
	OnClose func(code int, reason string)

	// OnSequenceMismatch reports a gap in sequence numbers.
	OnSequenceMismatch func(expected, actual int64)

	// OnPingPongLatency reports the round trip of an answered ping.
	OnPingPongLatency func(latency time.Duration)
}
