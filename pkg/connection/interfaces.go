package connection

import (
	"context"

	"github.com/mercury-transport/mercury-go/pkg/socket"
)

// Socket is the duplex channel the manager drives. *socket.Conn implements
// it.
type Socket interface {
	ID() string
	Open(ctx context.Context, url string, l socket.Listener) error
	Close(code int, reason string) error
	RemoveAllListeners()
}

// SocketFactory creates an unopened socket for one attempt.
type SocketFactory func(opts socket.Options) Socket

// DefaultSocketFactory creates gorilla/websocket backed sockets.
func DefaultSocketFactory(opts socket.Options) Socket {
	return socket.New(opts)
}

// Registrar owns the device registration that yields the channel URL.
type Registrar interface {
	// EnsureRegistered registers the device unless it already is.
	EnsureRegistered(ctx context.Context) error

	// Refresh re-registers the device. Called after an unknown handshake
	// response, which usually means a stale registration.
	Refresh(ctx context.Context) error

	// WebSocketURL returns the channel URL from the current registration.
	WebSocketURL() string
}

// CredentialRefresher supplies the token sent in the authorization frame.
type CredentialRefresher interface {
	Authorization(ctx context.Context) (string, error)

	// ForceRefresh renews the token. Called after NotAuthorized.
	ForceRefresh(ctx context.Context) error
}

// HostCatalog is the host-priority service used when high availability is
// enabled.
type HostCatalog interface {
	// Resolve rewrites url to the currently preferred host.
	Resolve(ctx context.Context, url string) (string, error)

	// MarkFailed demotes the host of url after a connection error.
	MarkFailed(ctx context.Context, url string) error
}
