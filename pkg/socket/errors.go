package socket

import (
	"errors"
	"fmt"
)

// Handshake errors.
var (
	ErrBadRequest      = errors.New("socket: bad request")
	ErrForbidden       = errors.New("socket: forbidden")
	ErrNotAuthorized   = errors.New("socket: not authorized")
	ErrUnknownResponse = errors.New("socket: unknown response")
)

// Usage errors.
var (
	ErrAlreadyOpened = errors.New("socket: already opened")
	ErrNotOpen       = errors.New("socket: not open")
)

// ConnectionError reports a network-level failure to establish or keep the
// channel. Code is set when the server closed the socket during the
// handshake.
type ConnectionError struct {
	URL    string
	Code   int
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("socket: connection to %s failed: %v", e.URL, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("socket: connection to %s closed during handshake: %d %s", e.URL, e.Code, e.Reason)
	default:
		return fmt.Sprintf("socket: connection to %s failed", e.URL)
	}
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// statusError maps an HTTP handshake status to a sentinel error.
func statusError(status int) error {
	switch status {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrNotAuthorized
	case 403:
		return ErrForbidden
	default:
		return fmt.Errorf("%w: HTTP %d", ErrUnknownResponse, status)
	}
}

// closeError maps a close received before the first pong to an error.
// The 44xx codes alias HTTP statuses when aliasHttpStatus is requested.
func closeError(url string, code int, reason string) error {
	switch code {
	case 4400:
		return ErrBadRequest
	case 4401:
		return ErrNotAuthorized
	case 4403:
		return ErrForbidden
	default:
		return &ConnectionError{URL: url, Code: code, Reason: reason}
	}
}
