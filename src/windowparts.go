package main

import (
	"fmt"

	"github.com/rs/zerolog"
)

// WindowParts owns every graphics handle. It lives on the thread that
// created the window; everything else reaches it through envelopes.
type WindowParts struct {
	gfx       Renderer
	assets    AssetLoader
	pipelines map[string]Pipeline
	target    DrawTarget
	log       zerolog.Logger
}

func NewWindowParts(gfx Renderer, assets AssetLoader, width, height int32, log zerolog.Logger) *WindowParts {
	return &WindowParts{
		gfx:       gfx,
		assets:    assets,
		pipelines: make(map[string]Pipeline),
		target:    DrawTarget{Width: width, Height: height},
		log:       log.With().Str("component", "window").Logger(),
	}
}

// Dispatch runs one envelope against the owned resources. A panicking
// request is logged and its requester sees a cancellation.
func (wp *WindowParts) Dispatch(e Envelope) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.Error().Interface("panic", r).Msg("window request failed")
		}
	}()
	e.Handle(wp)
}

func (wp *WindowParts) Renderer() Renderer   { return wp.gfx }
func (wp *WindowParts) Assets() AssetLoader  { return wp.assets }
func (wp *WindowParts) Target() DrawTarget   { return wp.target }
func (wp *WindowParts) Log() *zerolog.Logger { return &wp.log }
func (wp *WindowParts) ShaderVersion() ShaderVersion {
	return wp.gfx.ShaderVersion()
}

func (wp *WindowParts) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	wp.target.Width, wp.target.Height = width, height
	wp.gfx.Resize(width, height)
}

// Pipeline compiles name.vert and name.frag once and serves the cached
// result afterwards.
func (wp *WindowParts) Pipeline(name string) (Pipeline, error) {
	if p, ok := wp.pipelines[name]; ok {
		return p, nil
	}
	vert, err := wp.assets.Shader(name + ".vert")
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", name, err)
	}
	frag, err := wp.assets.Shader(name + ".frag")
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", name, err)
	}
	p, err := wp.gfx.NewPipeline(name, vert, frag)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", name, err)
	}
	wp.pipelines[name] = p
	wp.log.Debug().Str("pipeline", name).Msg("pipeline compiled")
	return p, nil
}

// RenderWindowParts is the draw-submission view handed to RenderDetails.
type RenderWindowParts struct {
	wp        *WindowParts
	queue     *EnvelopeQueue
	submitted int
}

func (wp *WindowParts) renderParts(queue *EnvelopeQueue) *RenderWindowParts {
	return &RenderWindowParts{wp: wp, queue: queue}
}

func (r *RenderWindowParts) Target() DrawTarget {
	return r.wp.target
}

func (r *RenderWindowParts) ShaderVersion() ShaderVersion {
	return r.wp.ShaderVersion()
}

func (r *RenderWindowParts) Submit(call DrawCall) {
	if call.Pipeline == nil || call.Vertices == nil {
		return
	}
	r.wp.gfx.Draw(call)
	r.submitted++
}

// Pass draws calls into an offscreen target, cleared first, then returns
// to the frame target.
func (r *RenderWindowParts) Pass(target DrawTarget, clearColor [4]float32, calls ...DrawCall) {
	gfx := r.wp.gfx
	gfx.BeginPass(target, clearColor)
	for _, c := range calls {
		r.Submit(c)
	}
	gfx.EndPass()
}

// Submitted counts draw calls issued through this view.
func (r *RenderWindowParts) Submitted() int {
	return r.submitted
}

// RenderTargetRequest asks for an offscreen texture of the given size.
// Replace, if set, is released first.
type RenderTargetRequest struct {
	Width, Height int32
	Replace       Texture
}

func (q RenderTargetRequest) HandleWindow(wp *WindowParts) (Texture, error) {
	if q.Replace != nil {
		wp.gfx.DeleteTexture(q.Replace)
	}
	if q.Width <= 0 || q.Height <= 0 {
		return nil, fmt.Errorf("render target %dx%d: invalid size", q.Width, q.Height)
	}
	return wp.gfx.NewRenderTarget(q.Width, q.Height)
}
