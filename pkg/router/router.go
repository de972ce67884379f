package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mercury-transport/mercury-go/pkg/events"
	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// ErrHandlerExists is returned when registering a second handler for the same key.
var ErrHandlerExists = errors.New("handler already registered")

// Handler processes one envelope. It runs before the envelope is re-emitted.
// Envelopes of a socket queue up behind a running handler, so a handler that
// blocks for long stalls delivery for that socket.
type Handler func(ctx context.Context, env *wire.Envelope) error

type handlerKey struct {
	namespace string
	name      string
}

// Router dispatches envelopes to registered handlers and the event bus.
type Router struct {
	mu       sync.RWMutex
	handlers map[handlerKey]Handler

	emitter *events.Emitter
	logger  *slog.Logger
}

// New creates a Router that emits on emitter. A nil logger uses slog.Default().
func New(emitter *events.Emitter, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NewEmitter(logger)
	}
	return &Router{
		handlers: make(map[handlerKey]Handler),
		emitter:  emitter,
		logger:   logger,
	}
}

// Register installs h for envelopes whose event type is "<namespace>.<name>".
func (r *Router) Register(namespace, name string, h Handler) error {
	if namespace == "" || h == nil {
		return fmt.Errorf("register %s.%s: namespace and handler are required", namespace, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := handlerKey{namespace, name}
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("register %s.%s: %w", namespace, name, ErrHandlerExists)
	}
	r.handlers[key] = h
	return nil
}

// Unregister removes the handler for (namespace, name), if any.
func (r *Router) Unregister(namespace, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, handlerKey{namespace, name})
}

// HasHandler reports whether a handler is registered for (namespace, name).
func (r *Router) HasHandler(namespace, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[handlerKey{namespace, name}]
	return ok
}

// Handle routes one envelope. It returns after the handler (if any) has
// completed and all events have been emitted.
func (r *Router) Handle(ctx context.Context, env *wire.Envelope) {
	patched, err := ApplyOverrides(env)
	if err != nil {
		r.logger.Warn("router: failed to apply header overrides", "id", env.ID, "error", err)
		patched = env
	}
	env = patched

	eventType := env.EventType()
	if eventType == "" {
		r.logger.Debug("router: envelope without event type", "id", env.ID)
		r.emitter.Emit(events.EventGeneric, env)
		return
	}

	namespace, name := env.Namespace(), env.Name()

	r.mu.RLock()
	h := r.handlers[handlerKey{namespace, name}]
	r.mu.RUnlock()

	if h != nil {
		r.invoke(ctx, h, env)
	}

	r.emitter.Emit(events.EventGeneric, env)
	r.emitter.Emit(events.NamespaceEvent(namespace), env)
	if name != "" {
		r.emitter.Emit(events.TypeEvent(eventType), env)
	}
}

func (r *Router) invoke(ctx context.Context, h Handler, env *wire.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("router: handler panicked", "eventType", env.EventType(), "panic", rec)
		}
	}()

	if err := h(ctx, env); err != nil {
		r.logger.Error("router: handler failed", "eventType", env.EventType(), "error", err)
	}
}
