package connection

import (
	"testing"

	"github.com/mercury-transport/mercury-go/pkg/events"
)

func TestClassifyActive(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		reason string
		want   Outcome
	}{
		{"going away", 1001, "", OutcomeTransient},
		{"no status", 1005, "", OutcomeTransient},
		{"abnormal", 1006, "", OutcomeTransient},
		{"server error", 1011, "", OutcomeTransient},
		{"normal idle", 1000, "idle", OutcomeTransient},
		{"normal forced", 1000, "Done (forced)", OutcomeTransient},
		{"normal pong timeout", 1000, "pong not received", OutcomeTransient},
		{"normal pong mismatch", 1000, "Pong Mismatch", OutcomeTransient},
		{"logout idle", 3050, "idle", OutcomeTransient},
		{"normal done", 1000, "Done", OutcomePermanent},
		{"logout custom", 3050, "custom-logout", OutcomePermanent},
		{"unsupported", 1003, "", OutcomePermanent},
		{"replaced", 4000, "", OutcomeReplaced},
		{"shutdown replaced still active", 4001, "", OutcomePermanent},
		{"unknown", 4999, "", OutcomePermanent},
		{"policy", 1008, "idle", OutcomePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.code, tt.reason, true); got != tt.want {
				t.Errorf("Classify(%d, %q, true) = %v, want %v", tt.code, tt.reason, got, tt.want)
			}
		})
	}
}

func TestClassifyInactive(t *testing.T) {
	if got := Classify(4001, "", false); got != OutcomeReplaced {
		t.Errorf("4001 inactive = %v, want replaced", got)
	}
	for _, code := range []int{1000, 1001, 1006, 3050, 4000, 4999} {
		if got := Classify(code, "idle", false); got != OutcomeIgnored {
			t.Errorf("%d inactive = %v, want ignored", code, got)
		}
	}
}

func TestOutcomeEvents(t *testing.T) {
	tests := []struct {
		outcome   Outcome
		event     string
		reconnect bool
	}{
		{OutcomeTransient, events.EventOfflineTransient, true},
		{OutcomePermanent, events.EventOfflinePermanent, false},
		{OutcomeReplaced, events.EventOfflineReplaced, false},
		{OutcomeIgnored, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			if got := tt.outcome.Event(); got != tt.event {
				t.Errorf("Event() = %q, want %q", got, tt.event)
			}
			if got := tt.outcome.Reconnect(); got != tt.reconnect {
				t.Errorf("Reconnect() = %v, want %v", got, tt.reconnect)
			}
		})
	}
}

func TestReconnectReasons(t *testing.T) {
	reasons := ReconnectReasons()
	if len(reasons) != 4 {
		t.Fatalf("len = %d, want 4", len(reasons))
	}
	reasons[0] = "mutated"
	if !IsReconnectReason("idle") {
		t.Error("allow-list must not be mutable through the copy")
	}
	if IsReconnectReason("") {
		t.Error("empty reason must not be allow-listed")
	}
}
