package main

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// EventSource is the window as the frame loop sees it.
type EventSource interface {
	// PollEvents returns the input gathered since the last call, oldest
	// first.
	PollEvents() []InputEvent
	ShouldClose() bool
	FramebufferSize() (width, height int32)
	SwapBuffers()
	Close()
}

type PreludeOptions struct {
	Framerate  int
	MaxFrames  int
	ClearColor [4]float32
}

// Prelude drives the game: each frame it feeds input to the game actor one
// event per update, renders, and services resource requests in between.
// Everything it does happens on the thread that owns the window.
type Prelude struct {
	window EventSource
	wp     *WindowParts
	queue  *EnvelopeQueue
	pool   *Pool
	game   *GameState
	state  *Addr[struct{}, GameDetails]
	clock  *SongClock
	opts   PreludeOptions
	frames int
	log    zerolog.Logger
}

func NewPrelude(window EventSource, wp *WindowParts, pool *Pool, game *GameState, clock *SongClock, opts PreludeOptions, log zerolog.Logger) *Prelude {
	if opts.Framerate <= 0 {
		opts.Framerate = 60
	}
	if clock == nil {
		clock = NewSongClock(nil)
	}
	return &Prelude{
		window: window,
		wp:     wp,
		queue:  NewEnvelopeQueue(),
		pool:   pool,
		game:   game,
		clock:  clock,
		opts:   opts,
		log:    log.With().Str("component", "prelude").Logger(),
	}
}

// Start spawns the game actor and starts the clock.
func (p *Prelude) Start(ctx context.Context) {
	if p.state != nil {
		return
	}
	if !p.clock.Started() {
		p.clock.Start(0)
	}
	p.state = Spawn[struct{}, GameDetails](ctx, p.pool, "game", p.game, p.log)
}

// Run loops until the window closes, ctx ends or MaxFrames is reached.
// An ended ctx is a normal exit.
func (p *Prelude) Run(ctx context.Context) error {
	ctx = p.log.WithContext(ctx)
	p.Start(ctx)
	defer p.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(p.opts.Framerate))
	defer ticker.Stop()
	for !p.window.ShouldClose() {
		if err := p.Frame(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				p.log.Debug().Err(err).Msg("frame interrupted")
				return nil
			}
			return err
		}
		if p.opts.MaxFrames > 0 && p.frames >= p.opts.MaxFrames {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Frame runs one frame: events, a plain update, render, swap.
func (p *Prelude) Frame(ctx context.Context) error {
	if w, h := p.window.FramebufferSize(); w != p.wp.Target().Width || h != p.wp.Target().Height {
		p.wp.Resize(w, h)
	}
	for _, ev := range p.window.PollEvents() {
		ev := ev
		p.log.Debug().
			Stringer("kind", ev.Kind).
			Str("key", KeyToString(ev.Key)).
			Stringer("mod", ev.Mod).
			Msg("input")
		if err := p.updateTick(ctx, &ev); err != nil {
			return err
		}
	}
	if err := p.updateTick(ctx, nil); err != nil {
		return err
	}
	if err := p.renderTick(ctx); err != nil {
		return err
	}
	p.window.SwapBuffers()
	p.frames++
	return nil
}

func (p *Prelude) Frames() int { return p.frames }

// updateTick does not return until the game has finished the update, and
// every resource request made during it has been handled.
func (p *Prelude) updateTick(ctx context.Context, ev *InputEvent) error {
	resp := p.state.Update(UpdatePayload[struct{}]{
		Event: ev,
		Init:  p.queue,
		Time:  p.clock.Now(),
		Wall:  p.clock.Wall(),
	})
	_, err := awaitDraining(ctx, p.queue, p.wp, resp)
	if errors.Is(err, ErrCancelled) {
		p.log.Debug().Msg("update cancelled")
		return nil
	}
	return err
}

func (p *Prelude) renderTick(ctx context.Context) error {
	resp := p.state.Render(RenderPayload[struct{}]{
		Target:        p.wp.Target(),
		ShaderVersion: p.wp.ShaderVersion(),
		Time:          p.clock.Now(),
		Init:          p.queue,
	})
	details, err := awaitDraining(ctx, p.queue, p.wp, resp)
	if errors.Is(err, ErrCancelled) {
		p.log.Debug().Msg("render cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	gfx := p.wp.Renderer()
	gfx.BeginFrame(p.wp.Target(), p.opts.ClearColor)
	details.Render(ctx, p.wp.renderParts(p.queue))
	gfx.EndFrame()
	return nil
}

// Stop ends the game actor, cancels leftover requests and closes the
// window.
func (p *Prelude) Stop() {
	if p.state != nil {
		p.state.Stop()
	wait:
		for {
			select {
			case <-p.state.Done():
				break wait
			case <-p.queue.Ready():
				p.queue.Drain(p.wp)
			}
		}
	}
	p.queue.Close()
	p.wp.Renderer().Close()
	p.window.Close()
}

// awaitDraining waits for resp on the owning thread, handling resource
// requests as they arrive so that the actor being waited on can finish.
// Requests queued before resp completed are handled before returning.
func awaitDraining[T any](ctx context.Context, q *EnvelopeQueue, wp *WindowParts, resp Response[T]) (T, error) {
	var zero T
	if q == nil {
		return resp.Wait(ctx)
	}
	for {
		select {
		case <-q.Ready():
			q.Drain(wp)
		case v, ok := <-resp.C():
			q.Drain(wp)
			if !ok {
				return zero, ErrCancelled
			}
			return v, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
