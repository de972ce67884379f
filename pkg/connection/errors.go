package connection

import "errors"

// Manager errors.
var (
	// ErrManagerClosed is returned by operations on a closed manager.
	ErrManagerClosed = errors.New("connection manager closed")

	// ErrNoURL is returned when neither the caller nor the registrar
	// provides a channel URL.
	ErrNoURL = errors.New("no channel url")

	// ErrSocketClosed is returned by an attempt whose socket closed before
	// it could become active.
	ErrSocketClosed = errors.New("socket closed before activation")

	// ErrSwitchoverStale is returned when a switchover completes after the
	// socket it was replacing has already gone.
	ErrSwitchoverStale = errors.New("switchover target no longer active")
)
