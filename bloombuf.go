package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx/gpucore"
)

// BloomBuffer accumulates glow quads and draws them in one call with the
// Renderer's bloom shader. Each vertex carries (radius, center) parameters
// instead of texture coordinates.
//
// Update re-triangulates every time it is called. GPU storage grows only
// when the triangle list exceeds the largest one uploaded so far.
type BloomBuffer struct {
	r *Renderer

	quads     []BloomVertex
	triangles []BloomVertex
	state     BatchState

	vbo *gpuBuffer

	// staged is the triangle vertex count of the last Update.
	staged  int
	encoded []byte
}

// NewBloomBuffer creates a BloomBuffer with room for capacity vertices. A
// non-positive capacity uses the Renderer's default (WithBloomCapacity).
func NewBloomBuffer(r *Renderer, capacity int) *BloomBuffer {
	if capacity <= 0 {
		capacity = r.opts.bloomCapacity
	}
	return &BloomBuffer{
		r:     r,
		quads: make([]BloomVertex, 0, capacity),
		vbo:   newGPUBuffer(r.dev, gpucore.BufferVertex, "bloombuf"),
	}
}

// Add appends a glow quad. The texture argument mirrors QuadBuffer.Add and
// is ignored: bloom quads share one effect pass.
// params is (radius, center.x, center.y, center.z).
func (b *BloomBuffer) Add(_ gpucore.TextureID, pos, size mgl32.Vec2, color, params mgl32.Vec4) {
	c := quadCorners(pos, size)
	b.quads = append(b.quads,
		BloomVertex{Position: c[0], Color: color, Params: params},
		BloomVertex{Position: c[1], Color: color, Params: params},
		BloomVertex{Position: c[2], Color: color, Params: params},
		BloomVertex{Position: c[3], Color: color, Params: params},
	)
	b.state = StateAccumulating
}

// ConvertQuadsToTriangles rebuilds the triangle list from the accumulated
// quads. The quads are left untouched.
func (b *BloomBuffer) ConvertQuadsToTriangles() {
	b.triangles = triangulate(b.triangles[:0], b.quads)
}

// Triangles returns the triangle list built by the last conversion.
func (b *BloomBuffer) Triangles() []BloomVertex { return b.triangles }

// Data returns the accumulated quad vertices.
func (b *BloomBuffer) Data() []BloomVertex { return b.quads }

// Vertices returns the number of accumulated quad vertices.
func (b *BloomBuffer) Vertices() int { return len(b.quads) }

// Capacity returns the number of quad vertices held without reallocating.
func (b *BloomBuffer) Capacity() int { return cap(b.quads) }

// State returns the accumulation state.
func (b *BloomBuffer) State() BatchState { return b.state }

// Reset clears both the quads and the triangle list.
func (b *BloomBuffer) Reset() {
	b.quads = b.quads[:0]
	b.triangles = b.triangles[:0]
	b.state = StateEmpty
}

// Update re-triangulates and uploads the triangle list.
func (b *BloomBuffer) Update() {
	if len(b.quads) == 0 {
		return
	}
	b.ConvertQuadsToTriangles()
	b.encoded = AppendBloomVertices(b.encoded[:0], b.triangles)
	if !b.vbo.upload(b.encoded, 0) {
		return
	}
	b.staged = len(b.triangles)
	b.state = StateStaged
}

// Draw issues one non-indexed draw over the staged triangles with the
// Renderer's bloom shader and current MVP.
func (b *BloomBuffer) Draw() {
	if len(b.triangles) == 0 || b.staged == 0 {
		return
	}
	debugAssert(b.state == StateStaged || b.state == StateDrawn, "bloombuf Draw before Update",
		"state", b.state)
	sh := b.r.shaders.Bloom
	if !shaderReady(sh) {
		Logger().Debug("gfx: bloombuf draw skipped, shader not ready", "vertices", b.staged)
		return
	}
	b.r.dev.BindVertexBuffer(b.vbo.id, BloomVertexLayout)
	sh.Bind()
	b.r.setMVP(sh)
	b.r.dev.Draw(gpucore.PrimitiveTriangles, 0, b.staged)
	b.r.rest(sh)
	b.state = StateDrawn
}

// Release frees the GPU storage.
func (b *BloomBuffer) Release() {
	b.vbo.release()
	b.staged = 0
	if len(b.quads) > 0 {
		b.state = StateAccumulating
	}
}
