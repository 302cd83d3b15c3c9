package main

import (
	_ "embed"
	"image"
	"image/color"

	mgl "github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/lane.vert.glsl
var vertexLaneShader string

//go:embed shaders/lane.frag.glsl
var fragmentLaneShader string

// ShaderVersion is the GLSL version the backend compiles, e.g. 120.
type ShaderVersion int

type Texture interface {
	IsValid() bool
	GetWidth() int32
	GetHeight() int32
}

type Pipeline interface {
	Name() string
}

// VertexBuffer holds interleaved x, y, z, u, v triangles.
type VertexBuffer interface {
	Count() int32
}

const vertexStride = 5

// DrawCall is one submission: which buffers, pipeline and uniforms. How it
// reaches the GPU is up to the Renderer.
type DrawCall struct {
	Pipeline  Pipeline
	Vertices  VertexBuffer
	Texture   Texture
	Transform mgl.Mat4
	Tint      [4]float32
}

// DrawTarget names where a frame is drawn. A nil Texture is the window's
// back buffer.
type DrawTarget struct {
	Texture       Texture
	Width, Height int32
}

func (d DrawTarget) Aspect() float32 {
	if d.Height == 0 {
		return 1
	}
	return float32(d.Width) / float32(d.Height)
}

// Renderer is the graphics backend. None of its methods are safe to call
// off the thread that owns the WindowParts.
type Renderer interface {
	GetName() string
	Init() error
	Close()
	BeginFrame(target DrawTarget, clearColor [4]float32)
	EndFrame()
	// BeginPass redirects draws to an offscreen target until EndPass, which
	// restores the frame target.
	BeginPass(target DrawTarget, clearColor [4]float32)
	EndPass()
	Resize(width, height int32)
	ShaderVersion() ShaderVersion

	NewPipeline(name, vertex, fragment string) (Pipeline, error)
	NewTexture(img *image.RGBA) (Texture, error)
	NewRenderTarget(width, height int32) (Texture, error)
	DeleteTexture(t Texture)
	NewVertexBuffer(data []float32) (VertexBuffer, error)
	DeleteVertexBuffer(v VertexBuffer)

	Draw(call DrawCall)
}

var white = [4]float32{1, 1, 1, 1}

// checkerImage is the stand-in lane texture used when no file is available.
func checkerImage(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dark := color.RGBA{24, 24, 32, 255}
	light := color.RGBA{48, 48, 64, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, dark)
			} else {
				img.SetRGBA(x, y, light)
			}
		}
	}
	return img
}
