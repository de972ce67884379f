// Package connection manages the lifecycle of the mercury event channel.
//
// A Manager owns one active socket per client session. It opens sockets
// through a RetryContext, classifies every close of the active socket and
// hands inbound envelopes to a router, one socket at a time in arrival
// order.
//
// # Reconnection Strategy
//
// The first attempt runs immediately. The k-th retry waits
//
//	min(backoffTimeReset * 2^k, backoffTimeMax)
//
// so with the defaults (1s, 32s) retries wait 1s, 2s, 4s, 8s, 16s, 32s,
// 32s, ... until the attempt ceiling is reached or the loop is aborted.
// Before the first successful connection InitialConnectionMaxRetries
// applies; afterwards MaxRetries does.
//
// Between attempts the manager reacts to the failure class:
//
//	ErrBadRequest, ErrForbidden   stop retrying
//	ErrUnknownResponse            refresh the device registration
//	ErrNotAuthorized              force a credential refresh
//	*ConnectionError              mark the host failed (high availability)
//
// # Close Codes
//
// Only closes of the active socket change state:
//
//	1001 1005 1006 1011            offline.transient, reconnect
//	1000 3050 allow-listed reason  offline.transient, reconnect
//	1000 3050 other reason         offline.permanent
//	4000                           offline.replaced
//	4001                           offline.permanent
//	anything else                  offline.permanent
//
// A 4001 on a socket that was already replaced by a switchover emits
// offline.replaced; other closes of superseded sockets are ignored.
//
// # Shutdown Switchover
//
// A {"type":"shutdown"} frame on the active socket starts a switchover:
// a second retry loop opens a new socket while the old one keeps
// delivering, then swaps it in without ever reporting offline.
package connection
