package log

import "time"

// StateChange builds a service-layer state change event.
func StateChange(connID string, entity StateEntity, oldState, newState, reason string, attempt int) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionIn,
		Layer:        LayerService,
		Category:     CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   entity,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
			Attempt:  attempt,
		},
	}
}

// Close builds a transport-layer close event.
func Close(connID string, dir Direction, code int, reason string, active bool) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    dir,
		Layer:        LayerTransport,
		Category:     CategoryControl,
		ControlMsg: &ControlMsgEvent{
			Type:        ControlMsgClose,
			CloseCode:   &code,
			CloseReason: reason,
			Active:      &active,
		},
	}
}

// Control builds a transport-layer control event without close details.
func Control(connID string, dir Direction, typ ControlMsgType) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    dir,
		Layer:        LayerTransport,
		Category:     CategoryControl,
		ControlMsg:   &ControlMsgEvent{Type: typ},
	}
}

// Pong builds a pong event carrying the measured round trip.
func Pong(connID string, latency time.Duration) Event {
	ev := Control(connID, DirectionIn, ControlMsgPong)
	ev.ControlMsg.Latency = &latency
	return ev
}

// Error builds an error event.
func Error(connID string, layer Layer, err error, context string, attempt int) Event {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionIn,
		Layer:        layer,
		Category:     CategoryError,
		Error: &ErrorEventData{
			Layer:   layer,
			Message: msg,
			Context: context,
			Attempt: attempt,
		},
	}
}
