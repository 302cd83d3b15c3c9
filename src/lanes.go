package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// laneQuad is the lane surface in model space: x and y in [-1, 1] at z = 0,
// two triangles of x, y, z, u, v.
func laneQuad() []float32 {
	return []float32{
		-1, -1, 0, 0, 1,
		1, -1, 0, 1, 1,
		1, 1, 0, 1, 0,
		-1, -1, 0, 0, 1,
		1, 1, 0, 1, 0,
		-1, 1, 0, 0, 0,
	}
}

// screenQuad covers clip space with the texture the right way up for a
// render target.
func screenQuad() []float32 {
	return []float32{
		-1, -1, 0, 0, 0,
		1, -1, 0, 1, 0,
		1, 1, 0, 1, 1,
		-1, -1, 0, 0, 0,
		1, 1, 0, 1, 1,
		-1, 1, 0, 0, 1,
	}
}

// LaneResources are the graphics handles the lanes draw with. They are
// created on the owning thread and only ever passed back to it. Surface is
// managed by the Lanes actor.
type LaneResources struct {
	Pipeline Pipeline
	Texture  Texture
	Quad     VertexBuffer
	Screen   VertexBuffer
	Surface  Texture
}

// LanesInitRequest creates the lane resources. A missing texture file falls
// back to a generated one; any other failure is returned.
type LanesInitRequest struct {
	Texture string
}

func (q LanesInitRequest) HandleWindow(wp *WindowParts) (*LaneResources, error) {
	p, err := wp.Pipeline("lane")
	if err != nil {
		return nil, err
	}
	img := checkerImage(64, 64, 8)
	if q.Texture != "" {
		switch decoded, err := wp.Assets().Image(q.Texture); {
		case err == nil:
			img = decoded
		case errors.Is(err, fs.ErrNotExist):
			wp.Log().Warn().Str("texture", q.Texture).Msg("lane texture not found, using fallback")
		default:
			return nil, fmt.Errorf("lane texture: %w", err)
		}
	}
	tex, err := wp.Renderer().NewTexture(img)
	if err != nil {
		return nil, fmt.Errorf("lane texture: %w", err)
	}
	vb, err := wp.Renderer().NewVertexBuffer(laneQuad())
	if err != nil {
		return nil, fmt.Errorf("lane vertices: %w", err)
	}
	screen, err := wp.Renderer().NewVertexBuffer(screenQuad())
	if err != nil {
		return nil, fmt.Errorf("lane vertices: %w", err)
	}
	return &LaneResources{Pipeline: p, Texture: tex, Quad: vb, Screen: screen}, nil
}

// ReleaseLanesRequest frees lane resources. The pipeline stays cached.
type ReleaseLanesRequest struct {
	Res *LaneResources
}

func (q ReleaseLanesRequest) HandleWindow(wp *WindowParts) (struct{}, error) {
	if q.Res == nil {
		return struct{}{}, nil
	}
	gfx := wp.Renderer()
	for _, t := range []Texture{q.Res.Texture, q.Res.Surface} {
		if t != nil {
			gfx.DeleteTexture(t)
		}
	}
	for _, v := range []VertexBuffer{q.Res.Quad, q.Res.Screen} {
		if v != nil {
			gfx.DeleteVertexBuffer(v)
		}
	}
	*q.Res = LaneResources{}
	return struct{}{}, nil
}

// Lanes draws the lane surface offscreen with the transform it is given,
// then composites it over the frame. The offscreen target follows the frame
// size; while it cannot be had the lanes are left out of the frame.
type Lanes struct {
	NopHooks
	res *LaneResources
	log zerolog.Logger
}

func NewLanes(res *LaneResources, log zerolog.Logger) *Lanes {
	return &Lanes{res: res, log: log.With().Str("component", "lanes").Logger()}
}

func (l *Lanes) Update(context.Context, UpdatePayload[mgl.Mat4]) {}

func (l *Lanes) surfaceFits(t DrawTarget) bool {
	s := l.res.Surface
	return s != nil && s.GetWidth() == t.Width && s.GetHeight() == t.Height
}

func (l *Lanes) EmitRenderDetails(ctx context.Context, p RenderPayload[mgl.Mat4]) LanesDetails {
	if l.res == nil {
		return LanesDetails{}
	}
	if !l.surfaceFits(p.Target) {
		req := RenderTargetRequest{Width: p.Target.Width, Height: p.Target.Height, Replace: l.res.Surface}
		l.res.Surface = nil
		if p.Init == nil {
			return LanesDetails{}
		}
		tex, err := SendThenReceive[Texture](ctx, p.Init, req)
		if err != nil {
			l.log.Warn().Err(err).Int32("width", req.Width).Int32("height", req.Height).Msg("lane surface unavailable, skipping lanes")
			return LanesDetails{}
		}
		l.res.Surface = tex
	}
	return LanesDetails{res: l.res, surface: l.res.Surface, transform: p.Payload}
}

type LanesDetails struct {
	res       *LaneResources
	surface   Texture
	transform mgl.Mat4
}

func (d LanesDetails) Render(_ context.Context, rw *RenderWindowParts) {
	if d.res == nil || d.surface == nil {
		return
	}
	rw.Pass(DrawTarget{Texture: d.surface, Width: d.surface.GetWidth(), Height: d.surface.GetHeight()}, [4]float32{},
		DrawCall{
			Pipeline:  d.res.Pipeline,
			Vertices:  d.res.Quad,
			Texture:   d.res.Texture,
			Transform: d.transform,
			Tint:      white,
		})
	rw.Submit(DrawCall{
		Pipeline:  d.res.Pipeline,
		Vertices:  d.res.Screen,
		Texture:   d.surface,
		Transform: mgl.Ident4(),
		Tint:      white,
	})
}
