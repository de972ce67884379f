package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Reserved envelope types.
const (
	TypeShutdown      = "shutdown"
	TypePing          = "ping"
	TypePong          = "pong"
	TypeAuthorization = "authorization"
)

// Payload keys read by the transport.
const (
	KeyEventType        = "eventType"
	KeyWSWriteTimestamp = "wsWriteTimestamp"
	KeyHeaders          = "headers"
)

// ErrEmptyFrame is returned when decoding a zero-length frame.
var ErrEmptyFrame = errors.New("empty frame")

// Envelope is the wire unit of the event channel.
type Envelope struct {
	ID               string         `json:"id,omitempty"`
	Type             string         `json:"type,omitempty"`
	TrackingID       string         `json:"trackingId,omitempty"`
	SequenceNumber   *int64         `json:"sequenceNumber,omitempty"`
	Timestamp        int64          `json:"timestamp,omitempty"`
	WSWriteTimestamp any            `json:"wsWriteTimestamp,omitempty"`
	Headers          map[string]any `json:"headers,omitempty"`
	Data             map[string]any `json:"data,omitempty"`
}

// Decode parses a text frame into an Envelope. Numbers in Headers and Data
// decode as json.Number so large integer IDs keep their precision.
func Decode(frame []byte) (*Envelope, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	dec := json.NewDecoder(bytes.NewReader(frame))
	dec.UseNumber()
	var env Envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// Encode serializes the envelope to a text frame.
func Encode(env *Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// IsShutdown reports whether this is the reserved imminent-shutdown control message.
func (e *Envelope) IsShutdown() bool {
	return e.Type == TypeShutdown
}

// IsPong reports whether this is a reply to a client ping.
func (e *Envelope) IsPong() bool {
	return e.Type == TypePong
}

// EventType returns data.eventType, or "" if absent.
func (e *Envelope) EventType() string {
	if e.Data == nil {
		return ""
	}
	s, _ := e.Data[KeyEventType].(string)
	return s
}

// Namespace returns the part of the event type before the first dot.
func (e *Envelope) Namespace() string {
	ns, _, _ := strings.Cut(e.EventType(), ".")
	return ns
}

// Name returns the part of the event type after the first dot, or "" if the
// event type has no sub-name.
func (e *Envelope) Name() string {
	_, name, _ := strings.Cut(e.EventType(), ".")
	return name
}

// WriteTimestamp returns the server write time carried by the envelope.
// The top-level field wins over data.wsWriteTimestamp. ok is false unless the
// value is a positive number.
func (e *Envelope) WriteTimestamp() (ts time.Time, ok bool) {
	if ms, ok := positiveNumber(e.WSWriteTimestamp); ok {
		return time.UnixMilli(ms), true
	}
	if e.Data != nil {
		if ms, ok := positiveNumber(e.Data[KeyWSWriteTimestamp]); ok {
			return time.UnixMilli(ms), true
		}
	}
	return time.Time{}, false
}

func positiveNumber(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int64(n), true
		}
	case int64:
		if n > 0 {
			return n, true
		}
	case int:
		if n > 0 {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil && i > 0 {
			return i, true
		}
	}
	return 0, false
}

// Clone returns a deep copy of the envelope via a JSON round trip.
func (e *Envelope) Clone() (*Envelope, error) {
	data, err := Encode(e)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
