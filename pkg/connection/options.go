package connection

import (
	"log/slog"
	"time"

	"github.com/mercury-transport/mercury-go/pkg/events"
	"github.com/mercury-transport/mercury-go/pkg/log"
	"github.com/mercury-transport/mercury-go/pkg/router"
	"github.com/mercury-transport/mercury-go/pkg/socket"
)

// Config holds the recognized connection options.
type Config struct {
	// ForceCloseDelay bounds how long a local close waits for the peer.
	ForceCloseDelay time.Duration

	PingInterval time.Duration
	PongTimeout  time.Duration

	// BackoffTimeReset is the first retry delay.
	BackoffTimeReset time.Duration

	// BackoffTimeMax caps retry delays.
	BackoffTimeMax time.Duration

	// InitialConnectionMaxRetries limits retries before the first ever
	// successful connection. Zero falls back to MaxRetries.
	InitialConnectionMaxRetries int

	// MaxRetries limits retries of every other loop. Zero is unbounded.
	MaxRetries int

	// BeforeLogoutOptionsCloseReason is used by Logout when no reason is
	// given.
	BeforeLogoutOptionsCloseReason string

	// DefaultMercuryOptions are passed to every socket as handshake headers.
	DefaultMercuryOptions map[string]string

	// HighAvailability routes every attempt through the HostCatalog.
	HighAvailability bool

	// Logger is used for operational logging. Defaults to slog.Default().
	Logger *slog.Logger

	// EventLogger captures connection events. Optional.
	EventLogger log.Logger
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		ForceCloseDelay:  socket.DefaultForceCloseDelay,
		PingInterval:     socket.DefaultPingInterval,
		PongTimeout:      socket.DefaultPongTimeout,
		BackoffTimeReset: InitialBackoff,
		BackoffTimeMax:   MaxBackoff,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ForceCloseDelay <= 0 {
		c.ForceCloseDelay = d.ForceCloseDelay
	}
	if c.PingInterval <= 0 {
		c.PingInterval = d.PingInterval
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = d.PongTimeout
	}
	if c.BackoffTimeReset <= 0 {
		c.BackoffTimeReset = d.BackoffTimeReset
	}
	if c.BackoffTimeMax <= 0 {
		c.BackoffTimeMax = d.BackoffTimeMax
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.EventLogger = log.OrNoop(c.EventLogger)
	return c
}

// retryConfig returns the retry settings for a loop. Only the normal loop
// before the first successful connection uses InitialConnectionMaxRetries.
func (c Config) retryConfig(firstEver bool) RetryConfig {
	maxRetries := c.MaxRetries
	if firstEver && c.InitialConnectionMaxRetries > 0 {
		maxRetries = c.InitialConnectionMaxRetries
	}
	return RetryConfig{
		Initial:    c.BackoffTimeReset,
		Max:        c.BackoffTimeMax,
		MaxRetries: maxRetries,
	}
}

// Dependencies are the manager's collaborators. Registrar, Credentials and
// Hosts may be nil; Hosts is required when HighAvailability is set.
type Dependencies struct {
	SocketFactory SocketFactory
	Registrar     Registrar
	Credentials   CredentialRefresher
	Hosts         HostCatalog
	Clock         Clock
	Router        *router.Router
	Emitter       *events.Emitter
}

// CloseOptions customizes the close sent by Disconnect. A zero Code sends
// 1000 "Done".
type CloseOptions struct {
	Code   int
	Reason string
}

// State is a snapshot of the manager's connection flags.
type State struct {
	Connected        bool
	Connecting       bool
	HasEverConnected bool
}

// String returns a short label for the state.
func (s State) String() string {
	switch {
	case s.Connected:
		return "connected"
	case s.Connecting:
		return "connecting"
	default:
		return "disconnected"
	}
}
