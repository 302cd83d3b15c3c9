//go:build !headless

package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v2.1/gl"
)

func newRenderer() Renderer {
	return &Renderer_GL21{}
}

// ------------------------------------------------------------------
// ShaderProgram_GL21

type ShaderProgram_GL21 struct {
	name string
	// Program
	program uint32
	// Attributes
	aPos int32
	aUv  int32
	// Uniforms
	u map[string]int32
}

func (s *ShaderProgram_GL21) Name() string { return s.name }

func (s *ShaderProgram_GL21) RegisterUniforms(names ...string) {
	for _, name := range names {
		s.u[name] = gl.GetUniformLocation(s.program, gl.Str(name+"\x00"))
	}
}

// ------------------------------------------------------------------
// Texture_GL21

type Texture_GL21 struct {
	width  int32
	height int32
	handle uint32
	fbo    uint32
}

func (t *Texture_GL21) IsValid() bool    { return t != nil && t.handle != 0 }
func (t *Texture_GL21) GetWidth() int32  { return t.width }
func (t *Texture_GL21) GetHeight() int32 { return t.height }

// ------------------------------------------------------------------
// VertexBuffer_GL21

type VertexBuffer_GL21 struct {
	vbo   uint32
	count int32
}

func (v *VertexBuffer_GL21) Count() int32 { return v.count }

// ------------------------------------------------------------------
// Renderer_GL21

type Renderer_GL21 struct {
	width, height int32
	target        DrawTarget
	textures      []uint32
	framebuffers  []uint32
	buffers       []uint32
	programs      []uint32
}

func (r *Renderer_GL21) GetName() string {
	return "OpenGL 2.1"
}

func (r *Renderer_GL21) ShaderVersion() ShaderVersion {
	return 120
}

func (r *Renderer_GL21) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	return nil
}

func (r *Renderer_GL21) Close() {
	if len(r.programs) > 0 {
		for _, p := range r.programs {
			gl.DeleteProgram(p)
		}
	}
	if len(r.buffers) > 0 {
		gl.DeleteBuffers(int32(len(r.buffers)), &r.buffers[0])
	}
	if len(r.framebuffers) > 0 {
		gl.DeleteFramebuffersEXT(int32(len(r.framebuffers)), &r.framebuffers[0])
	}
	if len(r.textures) > 0 {
		gl.DeleteTextures(int32(len(r.textures)), &r.textures[0])
	}
	r.programs, r.buffers, r.framebuffers, r.textures = nil, nil, nil, nil
}

func (r *Renderer_GL21) Resize(width, height int32) {
	r.width, r.height = width, height
}

func (r *Renderer_GL21) bindTarget(target DrawTarget) {
	if t, ok := target.Texture.(*Texture_GL21); ok && t.fbo != 0 {
		gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, t.fbo)
	} else {
		gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, 0)
	}
	gl.Viewport(0, 0, target.Width, target.Height)
}

func (r *Renderer_GL21) BeginFrame(target DrawTarget, clearColor [4]float32) {
	r.target = target
	r.bindTarget(target)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *Renderer_GL21) BeginPass(target DrawTarget, clearColor [4]float32) {
	r.bindTarget(target)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *Renderer_GL21) EndPass() {
	r.bindTarget(r.target)
}

func (r *Renderer_GL21) EndFrame() {
	gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, 0)
	gl.UseProgram(0)
	gl.Flush()
}

func (r *Renderer_GL21) compileShader(shaderType uint32, src string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var ok int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &ok)
	if ok == 0 {
		var size int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &size)
		log := strings.Repeat("\x00", int(size+1))
		gl.GetShaderInfoLog(shader, size, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compile error: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (r *Renderer_GL21) linkProgram(params ...uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, param := range params {
		gl.AttachShader(program, param)
	}
	gl.LinkProgram(program)
	// Mark shaders for deletion when the program is deleted
	for _, param := range params {
		gl.DeleteShader(param)
	}

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == 0 {
		var size int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &size)
		log := strings.Repeat("\x00", int(size+1))
		gl.GetProgramInfoLog(program, size, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link error: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func (r *Renderer_GL21) NewPipeline(name, vertex, fragment string) (Pipeline, error) {
	vertObj, err := r.compileShader(gl.VERTEX_SHADER, vertex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	fragObj, err := r.compileShader(gl.FRAGMENT_SHADER, fragment)
	if err != nil {
		gl.DeleteShader(vertObj)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	prog, err := r.linkProgram(vertObj, fragObj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s := &ShaderProgram_GL21{name: name, program: prog, u: make(map[string]int32)}
	s.aPos = gl.GetAttribLocation(prog, gl.Str("position\x00"))
	s.aUv = gl.GetAttribLocation(prog, gl.Str("uv\x00"))
	s.RegisterUniforms("transform", "tex", "tint")
	r.programs = append(r.programs, prog)
	return s, nil
}

func (r *Renderer_GL21) NewTexture(img *image.RGBA) (Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	t := &Texture_GL21{width: int32(b.Dx()), height: int32(b.Dy())}
	gl.GenTextures(1, &t.handle)
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.textures = append(r.textures, t.handle)
	return t, nil
}

func (r *Renderer_GL21) NewRenderTarget(width, height int32) (Texture, error) {
	t := &Texture_GL21{width: width, height: height}
	gl.GenTextures(1, &t.handle)
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.textures = append(r.textures, t.handle)

	gl.GenFramebuffersEXT(1, &t.fbo)
	gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, t.fbo)
	gl.FramebufferTexture2DEXT(gl.FRAMEBUFFER_EXT, gl.COLOR_ATTACHMENT0_EXT, gl.TEXTURE_2D, t.handle, 0)
	status := gl.CheckFramebufferStatusEXT(gl.FRAMEBUFFER_EXT)
	gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, 0)
	r.framebuffers = append(r.framebuffers, t.fbo)
	if status != gl.FRAMEBUFFER_COMPLETE_EXT {
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return t, nil
}

func removeHandle(handles []uint32, h uint32) []uint32 {
	for i, v := range handles {
		if v == h {
			return append(handles[:i], handles[i+1:]...)
		}
	}
	return handles
}

func (r *Renderer_GL21) DeleteTexture(t Texture) {
	tex, ok := t.(*Texture_GL21)
	if !ok || !tex.IsValid() {
		return
	}
	if tex.fbo != 0 {
		gl.DeleteFramebuffersEXT(1, &tex.fbo)
		r.framebuffers = removeHandle(r.framebuffers, tex.fbo)
		tex.fbo = 0
	}
	gl.DeleteTextures(1, &tex.handle)
	r.textures = removeHandle(r.textures, tex.handle)
	tex.handle = 0
}

func (r *Renderer_GL21) NewVertexBuffer(data []float32) (VertexBuffer, error) {
	if len(data) == 0 || len(data)%vertexStride != 0 {
		return nil, fmt.Errorf("vertex data length %d is not a multiple of %d", len(data), vertexStride)
	}
	v := &VertexBuffer_GL21{count: int32(len(data) / vertexStride)}
	gl.GenBuffers(1, &v.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.buffers = append(r.buffers, v.vbo)
	return v, nil
}

func (r *Renderer_GL21) DeleteVertexBuffer(v VertexBuffer) {
	vb, ok := v.(*VertexBuffer_GL21)
	if !ok || vb.vbo == 0 {
		return
	}
	gl.DeleteBuffers(1, &vb.vbo)
	r.buffers = removeHandle(r.buffers, vb.vbo)
	vb.vbo, vb.count = 0, 0
}

func (r *Renderer_GL21) Draw(call DrawCall) {
	s, ok := call.Pipeline.(*ShaderProgram_GL21)
	if !ok {
		return
	}
	vb, ok := call.Vertices.(*VertexBuffer_GL21)
	if !ok || vb.count == 0 {
		return
	}
	gl.UseProgram(s.program)
	gl.UniformMatrix4fv(s.u["transform"], 1, false, &call.Transform[0])
	gl.Uniform4f(s.u["tint"], call.Tint[0], call.Tint[1], call.Tint[2], call.Tint[3])
	gl.ActiveTexture(gl.TEXTURE0)
	if t, ok := call.Texture.(*Texture_GL21); ok && t.IsValid() {
		gl.BindTexture(gl.TEXTURE_2D, t.handle)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.Uniform1i(s.u["tex"], 0)

	gl.BindBuffer(gl.ARRAY_BUFFER, vb.vbo)
	stride := int32(vertexStride * 4)
	if s.aPos >= 0 {
		gl.EnableVertexAttribArray(uint32(s.aPos))
		gl.VertexAttribPointer(uint32(s.aPos), 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
		defer gl.DisableVertexAttribArray(uint32(s.aPos))
	}
	if s.aUv >= 0 {
		gl.EnableVertexAttribArray(uint32(s.aUv))
		gl.VertexAttribPointer(uint32(s.aUv), 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
		defer gl.DisableVertexAttribArray(uint32(s.aUv))
	}
	gl.DrawArrays(gl.TRIANGLES, 0, vb.count)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}
