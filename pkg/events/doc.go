// Package events provides the publish/subscribe surface of the mercury
// connection.
//
// The connection manager and the event router publish on a single Emitter.
// Listeners subscribe by event name:
//
//	em := events.NewEmitter(nil)
//	off := em.On(events.EventOfflineTransient, func(p any) {
//	    ev := p.(events.OfflineEvent)
//	    log.Printf("offline (%d %s), reconnecting", ev.Code, ev.Reason)
//	})
//	defer off()
//
// # Event Names
//
// Lifecycle events: online, offline, offline.permanent, offline.replaced,
// offline.transient and connection_failed.
//
// Inbound envelopes are re-emitted as "event", "event:<namespace>" and
// "event:<namespace>.<name>". Server-directed shutdown produces
// event:shutdown_imminent followed by either event:shutdown_switchover_complete
// or event:shutdown_switchover_failed.
package events
