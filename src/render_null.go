package main

import (
	"fmt"
	"image"
)

// NullRenderer keeps every handle in memory and records draw calls instead
// of issuing them. It backs headless builds.
type NullRenderer struct {
	width, height int32
	frames        int
	inFrame       bool
	target        DrawTarget
	inPass        bool
	calls         []DrawCall
	offscreen     []DrawCall
	targets       int
	buffers       int
	pipelines     []string
}

type nullPipeline struct{ name string }

func (p *nullPipeline) Name() string { return p.name }

type nullTexture struct {
	width, height int32
	pixels        []uint8
	target        bool
	deleted       bool
}

func (t *nullTexture) IsValid() bool    { return t != nil && !t.deleted }
func (t *nullTexture) GetWidth() int32  { return t.width }
func (t *nullTexture) GetHeight() int32 { return t.height }

type nullVertexBuffer struct{ data []float32 }

func (v *nullVertexBuffer) Count() int32 { return int32(len(v.data) / vertexStride) }

func (r *NullRenderer) GetName() string              { return "null" }
func (r *NullRenderer) Init() error                  { return nil }
func (r *NullRenderer) Close()                       { r.calls = nil }
func (r *NullRenderer) ShaderVersion() ShaderVersion { return 120 }
func (r *NullRenderer) Resize(width, height int32)   { r.width, r.height = width, height }

func (r *NullRenderer) BeginFrame(target DrawTarget, _ [4]float32) {
	r.inFrame = true
	r.target = target
	r.calls = r.calls[:0]
	r.offscreen = r.offscreen[:0]
}

func (r *NullRenderer) BeginPass(DrawTarget, [4]float32) { r.inPass = true }
func (r *NullRenderer) EndPass()                         { r.inPass = false }

func (r *NullRenderer) EndFrame() {
	r.inFrame = false
	r.frames++
}

func (r *NullRenderer) NewPipeline(name, vertex, fragment string) (Pipeline, error) {
	if vertex == "" || fragment == "" {
		return nil, fmt.Errorf("%s: empty shader source", name)
	}
	r.pipelines = append(r.pipelines, name)
	return &nullPipeline{name: name}, nil
}

func (r *NullRenderer) NewTexture(img *image.RGBA) (Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	return &nullTexture{width: int32(b.Dx()), height: int32(b.Dy()), pixels: img.Pix}, nil
}

func (r *NullRenderer) NewRenderTarget(width, height int32) (Texture, error) {
	r.targets++
	return &nullTexture{width: width, height: height, target: true}, nil
}

func (r *NullRenderer) DeleteTexture(t Texture) {
	tex, ok := t.(*nullTexture)
	if !ok || tex.deleted {
		return
	}
	tex.deleted = true
	if tex.target {
		r.targets--
	}
}

func (r *NullRenderer) NewVertexBuffer(data []float32) (VertexBuffer, error) {
	if len(data) == 0 || len(data)%vertexStride != 0 {
		return nil, fmt.Errorf("vertex data length %d is not a multiple of %d", len(data), vertexStride)
	}
	r.buffers++
	return &nullVertexBuffer{data: append([]float32(nil), data...)}, nil
}

func (r *NullRenderer) DeleteVertexBuffer(v VertexBuffer) {
	vb, ok := v.(*nullVertexBuffer)
	if !ok || vb.data == nil {
		return
	}
	vb.data = nil
	r.buffers--
}

func (r *NullRenderer) Draw(call DrawCall) {
	if !r.inFrame {
		return
	}
	if r.inPass {
		r.offscreen = append(r.offscreen, call)
		return
	}
	r.calls = append(r.calls, call)
}

// Calls returns the draw calls to the frame target of the current or last
// frame.
func (r *NullRenderer) Calls() []DrawCall { return r.calls }

// Offscreen returns the draw calls made inside passes.
func (r *NullRenderer) Offscreen() []DrawCall { return r.offscreen }

// RenderTargets counts live render targets.
func (r *NullRenderer) RenderTargets() int { return r.targets }

// VertexBuffers counts live vertex buffers.
func (r *NullRenderer) VertexBuffers() int { return r.buffers }

func (r *NullRenderer) Frames() int { return r.frames }

// Pipelines lists compiled pipeline names in compile order.
func (r *NullRenderer) Pipelines() []string { return r.pipelines }
