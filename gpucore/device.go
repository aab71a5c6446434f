package gpucore

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Device is the buffer-oriented graphics backend used by the batching layer.
//
// Draw calls read whatever was last bound: the vertex buffer and its layout,
// the index buffer for DrawIndexed, the texture on unit 0, and the shader
// bound through [Shader.Bind]. Callers are expected to return bind state to
// rest (buffer 0, texture 0, shader unbound) when they finish drawing.
type Device interface {
	// CreateBuffer creates an empty buffer object.
	CreateBuffer(kind BufferKind) (BufferID, error)

	// DestroyBuffer releases a buffer. Destroying InvalidID is a no-op.
	DestroyBuffer(id BufferID)

	// BufferData replaces the buffer storage with size bytes and writes data
	// at offset 0. size is never smaller than len(data).
	BufferData(id BufferID, data []byte, size int)

	// BufferSubData writes data into existing storage at offset.
	BufferSubData(id BufferID, offset int, data []byte)

	// BindVertexBuffer binds a vertex buffer with the given interleaved
	// layout. Binding InvalidID unbinds.
	BindVertexBuffer(id BufferID, layout VertexLayout)

	// BindIndexBuffer binds an index buffer. Binding InvalidID unbinds.
	BindIndexBuffer(id BufferID, format gputypes.IndexFormat)

	// BindTexture binds a texture to unit 0. Zero unbinds.
	BindTexture(tex TextureID)

	// Draw issues a non-indexed draw over count vertices starting at first.
	Draw(prim Primitive, first, count int)

	// DrawIndexed issues an indexed draw over count indices starting at
	// index first of the bound index buffer.
	DrawIndexed(prim Primitive, first, count int)
}

// Shader is an opaque program handle owned by an external shader manager.
type Shader interface {
	// Ready reports whether the program is compiled and linked. Draws
	// through a shader that is not ready are skipped.
	Ready() bool

	// Bind makes the program current.
	Bind()

	// Unbind clears the current program.
	Unbind()

	// UniformLocation returns the location of a named uniform, or -1.
	UniformLocation(name string) int32

	// SetMat4 sets a column-major mat4 uniform on the bound program.
	SetMat4(loc int32, m *[16]float32)

	// SetInt sets an int (or sampler) uniform on the bound program.
	SetInt(loc int32, v int32)
}

// TextureDevice is a Device that can upload images as textures.
type TextureDevice interface {
	Device

	// CreateTexture uploads img as an RGBA texture and returns its handle.
	CreateTexture(img image.Image) (TextureID, error)

	// DestroyTexture releases a texture. Zero is a no-op.
	DestroyTexture(tex TextureID)
}
