// Package router dispatches inbound envelopes to registered domain handlers
// and re-emits them on the event bus.
//
// For each envelope the router:
//
//  1. Applies header overrides (dotted key paths) to the payload.
//  2. Looks up the handler registered for (namespace, name) of data.eventType
//     and waits for it to finish. Handler errors and panics are logged.
//  3. Emits "event", "event:<namespace>" and, when the event type has a
//     sub-name, "event:<namespace>.<name>".
//
// Handlers are registered explicitly:
//
//	r.Register("device", "lost", func(ctx context.Context, env *wire.Envelope) error {
//	    return devices.MarkLost(ctx, env.Data["deviceId"].(string))
//	})
//
// The router itself does not serialize calls. The connection manager calls
// Handle from one delivery goroutine per socket, which keeps envelopes of a
// socket in arrival order.
package router
