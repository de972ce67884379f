package connection

import (
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mercury-transport/mercury-go/pkg/events"
)

// Mercury-specific close codes.
const (
	// CloseLogout is sent by the client on logout so the close is treated
	// as permanent.
	CloseLogout = 3050

	// CloseReplaced means another session replaced this one.
	CloseReplaced = 4000

	// CloseShutdownReplaced means the server expected this connection to
	// be replaced after an imminent-shutdown notice.
	CloseShutdownReplaced = 4001
)

// Outcome is the result of classifying a close.
type Outcome uint8

const (
	// OutcomeIgnored applies to closes of superseded sockets.
	OutcomeIgnored Outcome = iota
	OutcomeTransient
	OutcomePermanent
	OutcomeReplaced
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeTransient:
		return "transient"
	case OutcomePermanent:
		return "permanent"
	case OutcomeReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Reconnect reports whether the outcome schedules a reconnection.
func (o Outcome) Reconnect() bool {
	return o == OutcomeTransient
}

// Event returns the offline.* event emitted for the outcome, or "" when
// nothing is emitted.
func (o Outcome) Event() string {
	switch o {
	case OutcomeTransient:
		return events.EventOfflineTransient
	case OutcomePermanent:
		return events.EventOfflinePermanent
	case OutcomeReplaced:
		return events.EventOfflineReplaced
	default:
		return ""
	}
}

// reconnectReasons are the close reasons for which 1000 and 3050 still
// reconnect. Compared case-insensitively.
var reconnectReasons = []string{
	"idle",
	"done (forced)",
	"pong not received",
	"pong mismatch",
}

// IsReconnectReason reports whether reason is in the reconnect allow-list.
func IsReconnectReason(reason string) bool {
	for _, r := range reconnectReasons {
		if strings.EqualFold(reason, r) {
			return true
		}
	}
	return false
}

// ReconnectReasons returns a copy of the allow-list.
func ReconnectReasons() []string {
	return append([]string(nil), reconnectReasons...)
}

// Classify maps a close to an outcome. active reports whether the closing
// socket is still the manager's active socket.
func Classify(code int, reason string, active bool) Outcome {
	if !active {
		if code == CloseShutdownReplaced {
			return OutcomeReplaced
		}
		return OutcomeIgnored
	}

	switch code {
	case websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
		websocket.CloseInternalServerErr:
		return OutcomeTransient

	case websocket.CloseNormalClosure, CloseLogout:
		if IsReconnectReason(reason) {
			return OutcomeTransient
		}
		return OutcomePermanent

	case CloseReplaced:
		return OutcomeReplaced

	case websocket.CloseUnsupportedData, CloseShutdownReplaced:
		return OutcomePermanent

	default:
		return OutcomePermanent
	}
}
