package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mercury-transport/mercury-go/pkg/log"
)

var baseTime = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func at(ev log.Event, offset time.Duration) log.Event {
	ev.Timestamp = baseTime.Add(offset)
	return ev
}

// sessionEvents is a connect, two messages, a transient close and a
// reconnect on a second socket.
func sessionEvents() []log.Event {
	seq := int64(7)
	msg := log.Event{
		ConnectionID: "sock-aaaa-1111",
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message:      &log.MessageEvent{ID: "env-1", EventType: "conversation.activity", SequenceNumber: &seq, Size: 211},
	}
	other := msg
	other.Message = &log.MessageEvent{ID: "env-2", EventType: "locus.difference", Size: 80, HasOverrides: true}

	return []log.Event{
		at(log.StateChange("", log.StateEntityConnection, "disconnected", "connecting", "", 0), 0),
		at(log.Control("sock-aaaa-1111", log.DirectionOut, log.ControlMsgAuthorization), 10*time.Millisecond),
		at(log.StateChange("sock-aaaa-1111", log.StateEntityConnection, "connecting", "connected", "", 0), 50*time.Millisecond),
		at(msg, time.Second),
		at(other, 2*time.Second),
		at(log.Close("sock-aaaa-1111", log.DirectionIn, 1006, "", true), 3*time.Second),
		at(log.StateChange("", log.StateEntityConnection, "disconnected", "connecting", "", 0), 3*time.Second),
		at(log.Error("", log.LayerService, errConnRefused, "connect", 1), 3*time.Second+time.Millisecond),
		at(log.StateChange("sock-bbbb-2222", log.StateEntityConnection, "connecting", "connected", "", 0), 4*time.Second),
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errConnRefused = testError("connection refused")
