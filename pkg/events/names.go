package events

import "time"

// Lifecycle event names.
const (
	EventOnline           = "online"
	EventOffline          = "offline"
	EventOfflinePermanent = "offline.permanent"
	EventOfflineReplaced  = "offline.replaced"
	EventOfflineTransient = "offline.transient"
	EventConnectionFailed = "connection_failed"

	EventSequenceMismatch = "sequence-mismatch"
	EventPingPongLatency  = "ping-pong-latency"
)

// Envelope and shutdown event names.
const (
	// EventGeneric carries every inbound envelope.
	EventGeneric = "event"

	EventShutdownImminent           = "event:shutdown_imminent"
	EventShutdownSwitchoverComplete = "event:shutdown_switchover_complete"
	EventShutdownSwitchoverFailed   = "event:shutdown_switchover_failed"
)

// NamespaceEvent returns the namespace-scoped event name, e.g. "event:device".
func NamespaceEvent(namespace string) string {
	return EventGeneric + ":" + namespace
}

// TypeEvent returns the fully-qualified event name, e.g. "event:device.lost".
func TypeEvent(eventType string) string {
	return EventGeneric + ":" + eventType
}

// OfflineEvent is the payload of offline and offline.* events.
type OfflineEvent struct {
	Code   int
	Reason string
}

// ConnectionFailedEvent is the payload of connection_failed.
type ConnectionFailedEvent struct {
	Err      error
	Attempts int
}

// SwitchoverEvent is the payload of the shutdown switchover events.
type SwitchoverEvent struct {
	URL      string
	Attempts int
	Err      error // set on failure only
}

// SequenceMismatchEvent reports a gap in server sequence numbers.
type SequenceMismatchEvent struct {
	Expected int64
	Actual   int64
}

// LatencyEvent reports a measured ping/pong round trip.
type LatencyEvent struct {
	Latency time.Duration
}
