package events

import (
	"log/slog"
	"sync"
)

// Handler receives the payload of an emitted event.
type Handler func(payload any)

type listener struct {
	id   uint64
	fn   Handler
	once bool
}

// Emitter is a synchronous publish/subscribe hub keyed by event name.
// It is safe for concurrent use.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]listener
	nextID    uint64
	logger    *slog.Logger
}

// NewEmitter creates an Emitter. A nil logger uses slog.Default().
func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		listeners: make(map[string][]listener),
		logger:    logger,
	}
}

// On registers fn for the named event and returns a function that removes it.
func (e *Emitter) On(name string, fn Handler) (off func()) {
	return e.add(name, fn, false)
}

// Once registers fn to run for the next emission of the named event only.
func (e *Emitter) Once(name string, fn Handler) (off func()) {
	return e.add(name, fn, true)
}

func (e *Emitter) add(name string, fn Handler, once bool) func() {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.listeners[name] = append(e.listeners[name], listener{id: id, fn: fn, once: once})
	e.mu.Unlock()

	return func() { e.remove(name, id) }
}

func (e *Emitter) remove(name string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls := e.listeners[name]
	for i, l := range ls {
		if l.id == id {
			e.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(e.listeners[name]) == 0 {
		delete(e.listeners, name)
	}
}

// Emit calls every listener of the named event, in registration order, on
// the calling goroutine. A panicking listener is logged and skipped.
func (e *Emitter) Emit(name string, payload any) {
	e.mu.Lock()
	ls := e.listeners[name]
	snapshot := make([]listener, len(ls))
	copy(snapshot, ls)

	// Drop once-listeners before running them so re-entrant emits skip them.
	kept := ls[:0:0]
	for _, l := range ls {
		if !l.once {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(e.listeners, name)
	} else {
		e.listeners[name] = kept
	}
	e.mu.Unlock()

	for _, l := range snapshot {
		e.call(name, l.fn, payload)
	}
}

func (e *Emitter) call(name string, fn Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event listener panicked", "event", name, "panic", r)
		}
	}()
	fn(payload)
}

// ListenerCount returns the number of listeners registered for name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[name])
}

// RemoveAll drops every listener.
func (e *Emitter) RemoveAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = make(map[string][]listener)
}
