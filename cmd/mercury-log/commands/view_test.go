package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mercury-transport/mercury-go/pkg/log"
)

func TestFormatMessageEvent(t *testing.T) {
	seq := int64(42)
	event := log.Event{
		Timestamp:    baseTime,
		ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			ID:             "env-1",
			EventType:      "conversation.activity",
			SequenceNumber: &seq,
			Size:           128,
			HasOverrides:   true,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[conn:abc12345]",
		"IN  WIRE conversation.activity",
		"ID: env-1",
		"Sequence: 42",
		"Size: 128 bytes",
		"Overrides: yes",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatStateChangeEvent(t *testing.T) {
	event := log.StateChange("", log.StateEntitySwitchover, "connecting", "failed", "forbidden", 3)
	event.Timestamp = baseTime

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"[conn:-]",
		"SERVICE State",
		"Entity: SWITCHOVER",
		"connecting -> failed",
		"Reason: forbidden",
		"Attempt: 3",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatCloseEvent(t *testing.T) {
	event := log.Close("sock-1234-5678", log.DirectionIn, 4000, "replaced", false)
	event.Timestamp = baseTime
	event.URL = "wss://mercury.example.com/v1/events"

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"CTRL CLOSE",
		"Code: 4000",
		"Reason: replaced",
		"Socket: superseded",
		"URL: wss://mercury.example.com/v1/events",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatPongEvent(t *testing.T) {
	event := log.Pong("sock-1234-5678", 1500*time.Microsecond)
	event.Timestamp = baseTime

	var buf bytes.Buffer
	formatEvent(&buf, event)

	if !strings.Contains(buf.String(), "Latency: 1.500ms") {
		t.Errorf("expected latency, got:\n%s", buf.String())
	}
}

func TestFormatErrorEvent(t *testing.T) {
	event := log.Error("sock-1", log.LayerTransport, errConnRefused, "open", 2)
	event.Timestamp = baseTime

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{"Error", "Message: connection refused", "Context: open", "Attempt: 2"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0.500us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2500 * time.Millisecond, "2.500s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	state := log.CategoryState
	wire := log.LayerWire
	tests := []struct {
		name   string
		filter ViewFilter
		want   int
	}{
		{"all", ViewFilter{}, 9},
		{"connection", ViewFilter{ConnectionID: "sock-aaaa-1111"}, 5},
		{"category", ViewFilter{Category: &state}, 4},
		{"layer", ViewFilter{Layer: &wire}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.filter, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			if got := strings.Count(buf.String(), "[conn:"); got != tt.want {
				t.Errorf("got %d events, want %d:\n%s", got, tt.want, buf.String())
			}
		})
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView("/nonexistent/file.mlog", ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Layer
		wantErr bool
	}{
		{"transport", log.LayerTransport, false},
		{"WIRE", log.LayerWire, false},
		{"Service", log.LayerService, false},
		{"frame", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLayerFlag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLayerFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLayerFlag(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Direction
		wantErr bool
	}{
		{"in", log.DirectionIn, false},
		{"OUT", log.DirectionOut, false},
		{"both", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirectionFlag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirectionFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirectionFlag(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Category
		wantErr bool
	}{
		{"message", log.CategoryMessage, false},
		{"Control", log.CategoryControl, false},
		{"STATE", log.CategoryState, false},
		{"error", log.CategoryError, false},
		{"snapshot", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategoryFlag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategoryFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
