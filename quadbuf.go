package gfx

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gourcego/gfx/gpucore"
)

// TextureRun marks the vertex index where a texture starts being used.
type TextureRun struct {
	Start   int
	Texture gpucore.TextureID
}

// QuadBuffer accumulates textured quads over a frame and draws them with
// one indexed draw call per run of consecutive quads sharing a texture.
//
// Quads are drawn in insertion order. A texture of 0 never starts a run; the
// quad is drawn with whatever texture the preceding run uses.
//
// Typical frame:
//
//	qb.Reset()
//	for _, f := range files {
//	    qb.Add(f.Icon, f.Pos, f.Size, f.Color)
//	}
//	qb.Update()
//	qb.Draw(true)
type QuadBuffer struct {
	r *Renderer

	// data has len == capacity; the first count entries are filled.
	data  []QuadVertex
	count int
	runs  []TextureRun
	state BatchState

	vbo *gpuBuffer
	ibo *gpuBuffer

	// staged is the vertex count of the last Update.
	staged int
	// indexed is the vertex count the index buffer was built for.
	indexed     int
	indexFormat gputypes.IndexFormat

	encoded []byte
}

// NewQuadBuffer creates a QuadBuffer with room for capacity vertices. A
// non-positive capacity uses the Renderer's default (WithQuadCapacity).
func NewQuadBuffer(r *Renderer, capacity int) *QuadBuffer {
	if capacity <= 0 {
		capacity = r.opts.quadCapacity
	}
	return &QuadBuffer{
		r:    r,
		data: make([]QuadVertex, capacity),
		vbo:  newGPUBuffer(r.dev, gpucore.BufferVertex, "quadbuf-vertices"),
		ibo:  newGPUBuffer(r.dev, gpucore.BufferIndex, "quadbuf-indices"),
	}
}

// Add appends a quad covering the whole texture.
func (b *QuadBuffer) Add(tex gpucore.TextureID, pos, size mgl32.Vec2, color mgl32.Vec4) {
	b.AddUV(tex, pos, size, color, DefaultUV)
}

// AddUV appends a quad using the texture rectangle uv = (u0, v0, u1, v1).
func (b *QuadBuffer) AddUV(tex gpucore.TextureID, pos, size mgl32.Vec2, color mgl32.Vec4, uv mgl32.Vec4) {
	c := quadCorners(pos, size)
	b.AddVertices(tex,
		QuadVertex{Position: c[0], Color: color, TexCoord: mgl32.Vec2{uv[0], uv[1]}},
		QuadVertex{Position: c[1], Color: color, TexCoord: mgl32.Vec2{uv[2], uv[1]}},
		QuadVertex{Position: c[2], Color: color, TexCoord: mgl32.Vec2{uv[2], uv[3]}},
		QuadVertex{Position: c[3], Color: color, TexCoord: mgl32.Vec2{uv[0], uv[3]}},
	)
}

// AddVertices appends a quad given as four vertices in top-left, top-right,
// bottom-right, bottom-left order.
func (b *QuadBuffer) AddVertices(tex gpucore.TextureID, v0, v1, v2, v3 QuadVertex) {
	i := b.count
	if need := i + 4; need > len(b.data) {
		b.grow(need * 2)
	}
	b.data[i] = v0
	b.data[i+1] = v1
	b.data[i+2] = v2
	b.data[i+3] = v3
	b.count += 4

	if tex > 0 && (len(b.runs) == 0 || b.runs[len(b.runs)-1].Texture != tex) {
		b.runs = append(b.runs, TextureRun{Start: i, Texture: tex})
	}
	b.state = StateAccumulating
}

func (b *QuadBuffer) grow(n int) {
	Logger().Debug("gfx: quadbuf grow", "from", len(b.data), "to", n)
	data := make([]QuadVertex, n)
	copy(data, b.data[:b.count])
	b.data = data
}

// Reset empties the buffer, keeping its storage.
func (b *QuadBuffer) Reset() {
	b.count = 0
	b.runs = b.runs[:0]
	b.state = StateEmpty
}

// Vertices returns the number of filled vertices.
func (b *QuadBuffer) Vertices() int { return b.count }

// Capacity returns the number of vertices the buffer holds without growing.
func (b *QuadBuffer) Capacity() int { return len(b.data) }

// TextureChanges returns the number of texture runs.
func (b *QuadBuffer) TextureChanges() int { return len(b.runs) }

// Runs returns the texture runs in insertion order. The slice is valid until
// the next Add or Reset.
func (b *QuadBuffer) Runs() []TextureRun { return b.runs }

// Data returns the filled vertices. The slice is valid until the next Add
// or Reset and must not be modified.
func (b *QuadBuffer) Data() []QuadVertex { return b.data[:b.count] }

// State returns the accumulation state.
func (b *QuadBuffer) State() BatchState { return b.state }

// Update uploads the filled vertices. GPU storage is sized to the buffer's
// capacity and reallocated only when that capacity has grown.
func (b *QuadBuffer) Update() {
	if b.count == 0 {
		return
	}
	b.encoded = AppendQuadVertices(b.encoded[:0], b.data[:b.count])
	if !b.vbo.upload(b.encoded, len(b.data)*QuadVertexStride) {
		return
	}
	b.staged = b.count
	b.state = StateStaged
}

// Draw issues one indexed draw per texture run over the vertices staged by
// the last Update. With useOwnShader the Renderer's basic shader is bound
// and its uniforms set; otherwise the caller's shader is used as bound.
func (b *QuadBuffer) Draw(useOwnShader bool) {
	if !useOwnShader {
		b.draw(nil)
		return
	}
	sh := b.r.shaders.Basic
	if !shaderReady(sh) {
		Logger().Debug("gfx: quadbuf draw skipped, shader not ready", "vertices", b.staged)
		return
	}
	b.draw(sh)
}

// DrawWithShader is Draw with sh bound in place of the basic shader, for
// glyph quads drawn with the text shader.
func (b *QuadBuffer) DrawWithShader(sh gpucore.Shader) {
	if !shaderReady(sh) {
		Logger().Debug("gfx: quadbuf draw skipped, shader not ready", "vertices", b.staged)
		return
	}
	b.draw(sh)
}

func (b *QuadBuffer) draw(sh gpucore.Shader) {
	if b.count == 0 {
		return
	}
	debugAssert(b.state == StateStaged || b.state == StateDrawn, "quadbuf Draw before Update",
		"state", b.state)
	n := min(b.staged, b.count)
	if n == 0 {
		return
	}
	if !b.uploadIndices(n) {
		return
	}

	dev := b.r.dev
	dev.BindVertexBuffer(b.vbo.id, QuadVertexLayout)
	dev.BindIndexBuffer(b.ibo.id, b.indexFormat)
	if sh != nil {
		sh.Bind()
		b.r.setMVP(sh)
		setInt(sh, gpucore.UniformUseTexture, boolInt(len(b.runs) > 0))
		setInt(sh, gpucore.UniformTexture, 0)
	}

	for _, s := range b.spans(n) {
		dev.BindTexture(s.tex)
		dev.DrawIndexed(gpucore.PrimitiveTriangles, s.first/4*6, (s.end-s.first)/4*6)
	}

	if sh != nil {
		sh.Unbind()
	}
	dev.BindTexture(0)
	dev.BindIndexBuffer(gpucore.InvalidID, b.indexFormat)
	dev.BindVertexBuffer(gpucore.InvalidID, gpucore.VertexLayout{})
	b.state = StateDrawn
}

// span is a vertex range [first, end) drawn with one texture.
type span struct {
	first, end int
	tex        gpucore.TextureID
}

// spans splits the first n vertices into draw ranges, one per run. Each
// run extends to the next run's start, and the last to n. Once a run
// exists, quads added before it are not drawn.
func (b *QuadBuffer) spans(n int) []span {
	if len(b.runs) == 0 {
		return []span{{first: 0, end: n}}
	}
	out := make([]span, 0, len(b.runs))
	for i, run := range b.runs {
		if run.Start >= n {
			break
		}
		end := n
		if i+1 < len(b.runs) && b.runs[i+1].Start < n {
			end = b.runs[i+1].Start
		}
		out = append(out, span{first: run.Start, end: end, tex: run.Texture})
	}
	return out
}

// uploadIndices makes sure the index buffer covers n vertices.
// 16-bit indices are used while every vertex index fits.
func (b *QuadBuffer) uploadIndices(n int) bool {
	if b.indexed >= n && b.ibo.id != gpucore.InvalidID {
		return true
	}
	format := indexFormatFor(n)
	b.encoded = appendQuadIndices(b.encoded[:0], n/4, format)
	if !b.ibo.upload(b.encoded, 0) {
		return false
	}
	b.indexed = n
	b.indexFormat = format
	return true
}

func indexFormatFor(vertices int) gputypes.IndexFormat {
	if vertices <= 1<<16 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

// appendQuadIndices appends (0,1,2,0,2,3) index sextets for quads quads.
func appendQuadIndices(b []byte, quads int, format gputypes.IndexFormat) []byte {
	for q := range quads {
		base := uint32(q * 4) //nolint:gosec // bounded by vertex count
		for _, o := range [6]uint32{0, 1, 2, 0, 2, 3} {
			if format == gputypes.IndexFormatUint16 {
				b = binary.LittleEndian.AppendUint16(b, uint16(base+o)) //nolint:gosec // checked by indexFormatFor
			} else {
				b = binary.LittleEndian.AppendUint32(b, base+o)
			}
		}
	}
	return b
}

// Release frees the GPU storage. The buffer can still be used; storage is
// recreated on the next Update.
func (b *QuadBuffer) Release() {
	b.vbo.release()
	b.ibo.release()
	b.staged = 0
	b.indexed = 0
	if b.count > 0 {
		b.state = StateAccumulating
	}
}
