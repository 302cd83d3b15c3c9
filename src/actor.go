package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// RenderDetails describes one frame's drawing for an actor. Render consumes
// it on the thread that owns the draw target; it may wait for child
// actors' details first.
type RenderDetails interface {
	Render(ctx context.Context, rw *RenderWindowParts)
}

// NoDetails draws nothing.
type NoDetails struct{}

func (NoDetails) Render(context.Context, *RenderWindowParts) {}

// Actor is the two-message contract shared by gameplay components. An actor
// handles one message at a time, so its state needs no locking.
type Actor[P any, D RenderDetails] interface {
	Update(ctx context.Context, p UpdatePayload[P])
	EmitRenderDetails(ctx context.Context, p RenderPayload[P]) D
	OnStart(ctx context.Context)
	OnMessageExhaust(ctx context.Context)
}

// NopHooks gives an actor empty lifecycle hooks.
type NopHooks struct{}

func (NopHooks) OnStart(context.Context)          {}
func (NopHooks) OnMessageExhaust(context.Context) {}

// Stopper is implemented by actors that release children or files when
// their address is stopped.
type Stopper interface {
	OnStop(ctx context.Context)
}

type message[P any, D RenderDetails] struct {
	update  *UpdatePayload[P]
	updated *reply[struct{}]
	render  *RenderPayload[P]
	details *reply[D]
}

func (m message[P, D]) cancel() {
	m.updated.Cancel()
	m.details.Cancel()
}

// Addr is the handle used to message a running actor.
type Addr[P any, D RenderDetails] struct {
	name string
	mb   *mailbox[message[P, D]]
	pool *Pool
	log  zerolog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Spawn starts a on its own goroutine. Handlers run on pool slots; ctx
// ending stops the actor.
func Spawn[P any, D RenderDetails](ctx context.Context, pool *Pool, name string, a Actor[P, D], log zerolog.Logger) *Addr[P, D] {
	addr := &Addr[P, D]{
		name: name,
		mb:   newMailbox[message[P, D]](),
		pool: pool,
		log:  log.With().Str("actor", name).Logger(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go addr.run(ctx, a)
	return addr
}

func (addr *Addr[P, D]) Name() string { return addr.name }

// Update queues an update. The response completes once the actor's Update
// has returned, or is cancelled if the actor stops first.
func (addr *Addr[P, D]) Update(p UpdatePayload[P]) Response[struct{}] {
	tx, rx := newReply[struct{}]()
	if !addr.mb.push(message[P, D]{update: &p, updated: tx}) {
		tx.Cancel()
	}
	return rx
}

// Render asks for the actor's render details.
func (addr *Addr[P, D]) Render(p RenderPayload[P]) Response[D] {
	tx, rx := newReply[D]()
	if !addr.mb.push(message[P, D]{render: &p, details: tx}) {
		tx.Cancel()
	}
	return rx
}

// Stop cancels queued messages and ends the actor after its current
// message. It does not wait; see Done.
func (addr *Addr[P, D]) Stop() {
	addr.stopOnce.Do(func() { close(addr.stop) })
}

func (addr *Addr[P, D]) Done() <-chan struct{} {
	return addr.done
}

func (addr *Addr[P, D]) run(ctx context.Context, a Actor[P, D]) {
	defer close(addr.done)
	defer func() {
		for _, m := range addr.mb.close() {
			m.cancel()
		}
		if s, ok := a.(Stopper); ok {
			addr.guard(context.Background(), func(ctx context.Context) { s.OnStop(ctx) })
		}
		addr.log.Debug().Msg("actor stopped")
	}()

	addr.guard(ctx, a.OnStart)
	for {
		select {
		case <-addr.stop:
			return
		case <-ctx.Done():
			return
		case <-addr.mb.ready:
		}
		for {
			select {
			case <-addr.stop:
				return
			default:
			}
			m, ok := addr.mb.pop()
			if !ok {
				break
			}
			addr.handle(ctx, a, m)
		}
		addr.guard(ctx, a.OnMessageExhaust)
	}
}

func (addr *Addr[P, D]) handle(ctx context.Context, a Actor[P, D], m message[P, D]) {
	// Whatever happens below, the requester is never left hanging.
	defer m.cancel()
	addr.guard(ctx, func(ctx context.Context) {
		switch {
		case m.update != nil:
			a.Update(ctx, *m.update)
			m.updated.Send(struct{}{})
		case m.render != nil:
			m.details.Send(a.EmitRenderDetails(ctx, *m.render))
		}
	})
}

// guard runs fn on a pool slot and turns a panic into a log line.
func (addr *Addr[P, D]) guard(ctx context.Context, fn func(ctx context.Context)) {
	err := addr.pool.Run(ctx, func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				addr.log.Error().Str("panic", fmt.Sprint(r)).Msg("actor handler panicked")
			}
		}()
		fn(ctx)
	})
	if err != nil {
		addr.log.Debug().Err(err).Msg("handler skipped")
	}
}

type pendingLayer interface {
	render(ctx context.Context, rw *RenderWindowParts)
}

type layer[D RenderDetails] struct {
	name string
	resp Response[D]
}

func (l layer[D]) render(ctx context.Context, rw *RenderWindowParts) {
	d, err := awaitDraining(ctx, rw.queue, rw.wp, l.resp)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("layer", l.name).Msg("layer skipped")
		return
	}
	d.Render(ctx, rw)
}

// Layers are child render details still in flight, drawn bottom to top. A
// child that never answers is left out of the frame.
type Layers []pendingLayer

func AddLayer[D RenderDetails](ls Layers, name string, resp Response[D]) Layers {
	if !resp.Valid() {
		return ls
	}
	return append(ls, layer[D]{name: name, resp: resp})
}

func (ls Layers) Render(ctx context.Context, rw *RenderWindowParts) {
	for _, l := range ls {
		l.render(ctx, rw)
	}
}
