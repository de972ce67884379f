package log

import (
	"time"
)

// Event represents a connection event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the socket (UUID). Empty for manager-level
	// events that are not tied to one socket.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// URL is the socket URL, when known.
	URL string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Message     *MessageEvent     `cbor:"10,keyasint,omitempty"` // Wire layer
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"` // Manager state
	ControlMsg  *ControlMsgEvent  `cbor:"12,keyasint,omitempty"` // Ping/pong/close/shutdown
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the socket layer.
	LayerTransport Layer = 0
	// LayerWire is the envelope layer.
	LayerWire Layer = 1
	// LayerService is the connection manager.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates an inbound envelope.
	CategoryMessage Category = 0
	// CategoryControl indicates a control frame (ping/pong/close/shutdown).
	CategoryControl Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryControl:
		return "CONTROL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures a decoded envelope.
type MessageEvent struct {
	// ID is the envelope id.
	ID string `cbor:"1,keyasint,omitempty"`

	// EventType is data.eventType.
	EventType string `cbor:"2,keyasint,omitempty"`

	// SequenceNumber is the server sequence number, if present.
	SequenceNumber *int64 `cbor:"3,keyasint,omitempty"`

	// Size is the frame size in bytes.
	Size int `cbor:"4,keyasint,omitempty"`

	// HasOverrides is set when the envelope carried header overrides.
	HasOverrides bool `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures connection manager lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`

	// Attempt is the retry attempt number, when relevant.
	Attempt int `cbor:"5,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a connection state change.
	StateEntityConnection StateEntity = 0
	// StateEntitySwitchover indicates a shutdown switchover state change.
	StateEntitySwitchover StateEntity = 1
	// StateEntityRetry indicates a retry loop state change.
	StateEntityRetry StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntitySwitchover:
		return "SWITCHOVER"
	case StateEntityRetry:
		return "RETRY"
	default:
		return "UNKNOWN"
	}
}

// ControlMsgEvent captures control frames.
type ControlMsgEvent struct {
	// Type of control message.
	Type ControlMsgType `cbor:"1,keyasint"`

	// CloseCode is the close code for close messages.
	CloseCode *int `cbor:"2,keyasint,omitempty"`

	// CloseReason is the close reason for close messages.
	CloseReason string `cbor:"3,keyasint,omitempty"`

	// Latency is the ping round trip for pong messages.
	Latency *time.Duration `cbor:"4,keyasint,omitempty"`

	// Active reports whether a closing socket was the active one.
	Active *bool `cbor:"5,keyasint,omitempty"`
}

// ControlMsgType indicates the type of control message.
type ControlMsgType uint8

const (
	// ControlMsgPing indicates a ping message.
	ControlMsgPing ControlMsgType = 0
	// ControlMsgPong indicates a pong message.
	ControlMsgPong ControlMsgType = 1
	// ControlMsgClose indicates a close message.
	ControlMsgClose ControlMsgType = 2
	// ControlMsgShutdown indicates a server imminent-shutdown message.
	ControlMsgShutdown ControlMsgType = 3
	// ControlMsgAuthorization indicates the post-handshake authorization frame.
	ControlMsgAuthorization ControlMsgType = 4
)

// String returns the control message type name.
func (c ControlMsgType) String() string {
	switch c {
	case ControlMsgPing:
		return "PING"
	case ControlMsgPong:
		return "PONG"
	case ControlMsgClose:
		return "CLOSE"
	case ControlMsgShutdown:
		return "SHUTDOWN"
	case ControlMsgAuthorization:
		return "AUTHORIZATION"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the close or HTTP status code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`

	// Attempt is the retry attempt number, if the error came from one.
	Attempt int `cbor:"5,keyasint,omitempty"`
}
