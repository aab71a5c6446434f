package gfx

import (
	"fmt"

	"github.com/gourcego/gfx/gpucore"
)

// ShaderSet holds the shader handles supplied by the shader manager.
// Any entry may be nil; draws that need a missing shader are skipped.
type ShaderSet struct {
	Basic  gpucore.Shader
	Text   gpucore.Shader
	Bloom  gpucore.Shader
	Shadow gpucore.Shader
}

// Renderer is the single authority for the active transform and dispatches
// vertex streams to a gpucore.Device.
//
// It embeds the MatrixStack, so SetProjection, PushModelView, Push2D and the
// other transform methods are called on the Renderer directly. Batch
// buffers created with NewQuadBuffer and NewBloomBuffer draw with the
// Renderer's current MVP.
//
// A Renderer is not safe for concurrent use; it must be used from the
// goroutine that owns the graphics context.
type Renderer struct {
	MatrixStack

	dev     gpucore.Device
	opts    rendererOptions
	shaders ShaderSet
	texture gpucore.TextureID

	// attached is true while the device receives SetLogger updates.
	attached bool

	imm         ImmediateBatch
	stream      *gpuBuffer
	bloomStream *gpuBuffer

	triScratch   []Vertex
	bloomScratch []BloomVertex
	encoded      []byte
}

// NewRenderer creates a Renderer drawing through dev.
func NewRenderer(dev gpucore.Device, opts ...Option) (*Renderer, error) {
	if dev == nil {
		return nil, fmt.Errorf("gfx: new renderer: %w", ErrNilDevice)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	r := &Renderer{
		dev:         dev,
		opts:        o,
		shaders:     o.shaders,
		stream:      newGPUBuffer(dev, gpucore.BufferVertex, "immediate"),
		bloomStream: newGPUBuffer(dev, gpucore.BufferVertex, "bloom-immediate"),
	}
	r.MatrixStack.init()
	r.imm.color = white
	attachDevice(dev)
	r.attached = true
	return r, nil
}

// Device returns the device the Renderer draws through.
func (r *Renderer) Device() gpucore.Device { return r.dev }

// SetShaders replaces the shader handles.
func (r *Renderer) SetShaders(s ShaderSet) { r.shaders = s }

// Shaders returns the current shader handles.
func (r *Renderer) Shaders() ShaderSet { return r.shaders }

// BindTexture sets the texture used by subsequent immediate-mode draws.
// Zero means untextured.
func (r *Renderer) BindTexture(tex gpucore.TextureID) { r.texture = tex }

// UnbindTexture clears the texture used by subsequent draws.
func (r *Renderer) UnbindTexture() { r.texture = 0 }

// Texture returns the texture used by immediate-mode draws.
func (r *Renderer) Texture() gpucore.TextureID { return r.texture }

// Release frees the Renderer's GPU buffers. The Renderer can still be used
// afterwards; buffers are recreated on the next draw.
func (r *Renderer) Release() {
	r.stream.release()
	r.bloomStream.release()
	if r.attached {
		detachDevice(r.dev)
		r.attached = false
	}
}

// setMVP writes the current MVP to the shader's u_mvp uniform.
func (r *Renderer) setMVP(sh gpucore.Shader) {
	if loc := sh.UniformLocation(gpucore.UniformMVP); loc >= 0 {
		m := [16]float32(r.MVP())
		sh.SetMat4(loc, &m)
	}
}

// rest returns the device to its unbound state after a draw.
func (r *Renderer) rest(sh gpucore.Shader) {
	sh.Unbind()
	r.dev.BindTexture(0)
	r.dev.BindVertexBuffer(gpucore.InvalidID, gpucore.VertexLayout{})
}

func setInt(sh gpucore.Shader, name string, v int32) {
	if loc := sh.UniformLocation(name); loc >= 0 {
		sh.SetInt(loc, v)
	}
}

func shaderReady(sh gpucore.Shader) bool {
	return sh != nil && sh.Ready()
}
