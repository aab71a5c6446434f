// Package gpucore defines the graphics backend capabilities consumed by the
// gfx batching layer.
//
// The batching layer targets buffer-oriented backends that have no native
// quad primitive and no fixed-function matrix stack. Everything the layer
// needs from such a backend is captured by two interfaces:
//
//   - [Device]: buffer objects, a fixed interleaved vertex layout, texture
//     binding by integer handle, and indexed or non-indexed draws.
//   - [Shader]: an opaque program owned by an external shader manager that
//     exposes bind/unbind, uniform lookup and the two uniforms the layer
//     sets (a 4x4 model-view-projection matrix and a sampler unit).
//
// # Implementations
//
//	+-------------------+      +------------------+      +------------------+
//	| recording.Device  |      | backend/wgpu     |      | backend/gl       |
//	| (headless, tests) |      | (gogpu/wgpu hal) |      | (OpenGL 4.1)     |
//	+-------------------+      +------------------+      +------------------+
//
// # Resource Management
//
// Buffers are referenced by opaque [BufferID] values. Textures are referenced
// by [TextureID] values whose lifetime is owned elsewhere (reference counted
// by the resource manager); the batching layer only binds them. The zero
// value of both ID types means "none".
//
// # Threading
//
// A Device is bound to the goroutine that owns the graphics context. None of
// the methods are safe for concurrent use.
package gpucore
