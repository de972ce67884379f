package connection

import (
	"context"
	"sync"

	"github.com/mercury-transport/mercury-go/pkg/router"
	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// inboxSize bounds the per-socket queue. A full inbox blocks the socket's
// read loop until the router catches up or the inbox is closed.
const inboxSize = 256

// inbox delivers one socket's envelopes to the router strictly in arrival
// order, each Handle call finishing before the next starts.
type inbox struct {
	ch   chan *wire.Envelope
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newInbox(ctx context.Context, r *router.Router) *inbox {
	in := &inbox{
		ch:   make(chan *wire.Envelope, inboxSize),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go in.run(ctx, r)
	return in
}

func (in *inbox) run(ctx context.Context, r *router.Router) {
	defer close(in.done)
	for {
		select {
		case env := <-in.ch:
			r.Handle(ctx, env)
		case <-in.stop:
			// Deliver what was queued before the close.
			for {
				select {
				case env := <-in.ch:
					r.Handle(ctx, env)
				default:
					return
				}
			}
		}
	}
}

// push enqueues env. It blocks while the inbox is full and gives up once the
// inbox is closed; envelopes pushed after close are dropped.
func (in *inbox) push(env *wire.Envelope) {
	select {
	case <-in.stop:
		return
	default:
	}
	select {
	case in.ch <- env:
	case <-in.stop:
	}
}

// close stops accepting envelopes and releases a blocked push. Queued
// envelopes are still delivered.
func (in *inbox) close() {
	in.once.Do(func() { close(in.stop) })
}
