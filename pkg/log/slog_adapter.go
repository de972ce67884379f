package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes connection events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as one structured record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.URL != "" {
		attrs = append(attrs, slog.String("url", event.URL))
	}

	switch {
	case event.Message != nil:
		attrs = append(attrs,
			slog.String("msg_id", event.Message.ID),
			slog.String("event_type", event.Message.EventType),
		)
		if event.Message.SequenceNumber != nil {
			attrs = append(attrs, slog.Int64("seq", *event.Message.SequenceNumber))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
		if event.StateChange.Attempt > 0 {
			attrs = append(attrs, slog.Int("attempt", event.StateChange.Attempt))
		}
	case event.ControlMsg != nil:
		attrs = append(attrs, slog.String("ctrl_type", event.ControlMsg.Type.String()))
		if event.ControlMsg.CloseCode != nil {
			attrs = append(attrs,
				slog.Int("close_code", *event.ControlMsg.CloseCode),
				slog.String("close_reason", event.ControlMsg.CloseReason),
			)
		}
		if event.ControlMsg.Active != nil {
			attrs = append(attrs, slog.Bool("active", *event.ControlMsg.Active))
		}
		if event.ControlMsg.Latency != nil {
			attrs = append(attrs, slog.Duration("latency", *event.ControlMsg.Latency))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
		if event.Error.Attempt > 0 {
			attrs = append(attrs, slog.Int("attempt", event.Error.Attempt))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "mercury", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
