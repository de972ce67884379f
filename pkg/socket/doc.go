// Package socket implements the mercury event channel socket on top of
// gorilla/websocket.
//
// A Conn is single use: Open dials the server, sends the authorization
// frame and resolves once the first pong arrives. After a successful Open
// the listener receives every decoded envelope in arrival order and exactly
// one close notification.
//
// # Handshake failures
//
// Open maps handshake failures to sentinel errors so callers can pick a
// recovery strategy:
//
//	HTTP 400 / close 4400  ErrBadRequest
//	HTTP 401 / close 4401  ErrNotAuthorized
//	HTTP 403 / close 4403  ErrForbidden
//	other HTTP status      ErrUnknownResponse
//	network failure        *ConnectionError
//
// # Keep-alive
//
// Application-level pings are sent every PingInterval. A pong that does not
// arrive within PongTimeout closes the socket with 1000 "pong not received";
// a pong answering a different ping closes it with 1000 "pong mismatch".
package socket
