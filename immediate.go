package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx/gpucore"
)

var white = mgl32.Vec4{1, 1, 1, 1}

// ImmediateBatch is the vertex stream between one Begin and End, plus the
// sticky color and texture coordinates applied to every emitted vertex.
type ImmediateBatch struct {
	kind     gpucore.Primitive
	vertices []Vertex
	color    mgl32.Vec4
	texCoord mgl32.Vec2
	open     bool
}

func (b *ImmediateBatch) begin(kind gpucore.Primitive) {
	b.kind = kind
	b.vertices = b.vertices[:0]
	b.color = white
	b.texCoord = mgl32.Vec2{}
	b.open = true
}

func (b *ImmediateBatch) clear() {
	b.vertices = b.vertices[:0]
	b.open = false
}

// Kind returns the primitive passed to the last Begin.
func (b *ImmediateBatch) Kind() gpucore.Primitive { return b.kind }

// Len returns the number of pending vertices.
func (b *ImmediateBatch) Len() int { return len(b.vertices) }

// Vertices returns the pending vertices. The slice is reused after End.
func (b *ImmediateBatch) Vertices() []Vertex { return b.vertices }

// Begin starts a new immediate-mode stream of the given primitive kind.
// Pending vertices are discarded; color resets to opaque white and texture
// coordinates to (0,0).
func (r *Renderer) Begin(kind gpucore.Primitive) {
	debugAssert(!r.imm.open || len(r.imm.vertices) == 0, "Begin with pending vertices",
		"pending", len(r.imm.vertices))
	r.imm.begin(kind)
}

// Vertex emits a vertex with the current color and texture coordinates.
func (r *Renderer) Vertex(x, y, z float32) {
	r.imm.vertices = append(r.imm.vertices, Vertex{
		Position: mgl32.Vec3{x, y, z},
		Color:    r.imm.color,
		TexCoord: r.imm.texCoord,
	})
}

// Vertex2 emits a vertex at (v.x, v.y, 0).
func (r *Renderer) Vertex2(v mgl32.Vec2) { r.Vertex(v[0], v[1], 0) }

// Vertex3 emits a vertex at v.
func (r *Renderer) Vertex3(v mgl32.Vec3) { r.Vertex(v[0], v[1], v[2]) }

// Color sets the color of subsequently emitted vertices.
func (r *Renderer) Color(red, green, blue, alpha float32) {
	r.imm.color = mgl32.Vec4{red, green, blue, alpha}
}

// ColorV sets the color of subsequently emitted vertices.
func (r *Renderer) ColorV(c mgl32.Vec4) { r.imm.color = c }

// TexCoord sets the texture coordinates of subsequently emitted vertices.
func (r *Renderer) TexCoord(s, t float32) {
	r.imm.texCoord = mgl32.Vec2{s, t}
}

// Immediate returns the pending immediate-mode stream.
func (r *Renderer) Immediate() *ImmediateBatch { return &r.imm }

// End draws the pending stream with the basic shader and clears it.
// Quad streams are split into triangles first. An empty stream is a no-op.
func (r *Renderer) End() {
	defer r.imm.clear()
	r.drawStream(r.shaders.Basic, r.imm.kind, r.imm.vertices, true)
}

// DrawWithShader draws the pending stream like End, but with sh instead of
// the basic shader. Used for text and shadow passes.
func (r *Renderer) DrawWithShader(sh gpucore.Shader) {
	defer r.imm.clear()
	r.drawStream(sh, r.imm.kind, r.imm.vertices, false)
}

// DrawVertices draws verts with the basic shader without touching the
// immediate stream.
func (r *Renderer) DrawVertices(kind gpucore.Primitive, verts []Vertex) {
	r.drawStream(r.shaders.Basic, kind, verts, true)
}

// DrawQuad draws an untextured rectangle at (x, y) in the current color
// space.
func (r *Renderer) DrawQuad(x, y, w, h float32, color mgl32.Vec4) {
	r.Begin(gpucore.PrimitiveQuads)
	r.emitQuad(x, y, w, h, color)
	r.End()
}

// DrawQuadTextured draws a rectangle with tex bound, then unbinds the
// texture.
func (r *Renderer) DrawQuadTextured(x, y, w, h float32, color mgl32.Vec4, tex gpucore.TextureID) {
	r.BindTexture(tex)
	r.Begin(gpucore.PrimitiveQuads)
	r.emitQuad(x, y, w, h, color)
	r.End()
	r.UnbindTexture()
}

func (r *Renderer) emitQuad(x, y, w, h float32, color mgl32.Vec4) {
	r.ColorV(color)
	r.TexCoord(0, 0)
	r.Vertex(x, y, 0)
	r.TexCoord(1, 0)
	r.Vertex(x+w, y, 0)
	r.TexCoord(1, 1)
	r.Vertex(x+w, y+h, 0)
	r.TexCoord(0, 1)
	r.Vertex(x, y+h, 0)
}

// drawStream triangulates, uploads and draws one vertex stream.
func (r *Renderer) drawStream(sh gpucore.Shader, kind gpucore.Primitive, verts []Vertex, useTexture bool) {
	if len(verts) == 0 {
		return
	}
	if !shaderReady(sh) {
		Logger().Debug("gfx: draw skipped, shader not ready", "vertices", len(verts))
		return
	}

	prim := kind
	if kind == gpucore.PrimitiveQuads {
		debugAssert(len(verts)%4 == 0, "quad stream is not a multiple of 4", "vertices", len(verts))
		r.triScratch = triangulate(r.triScratch[:0], verts)
		verts = r.triScratch
		prim = gpucore.PrimitiveTriangles
		if len(verts) == 0 {
			return
		}
	}

	r.encoded = AppendVertices(r.encoded[:0], verts)
	if !r.stream.upload(r.encoded, r.opts.streamCapacity*VertexStride) {
		return
	}

	r.dev.BindVertexBuffer(r.stream.id, VertexLayout)
	sh.Bind()
	r.setMVP(sh)
	if useTexture {
		setInt(sh, gpucore.UniformUseTexture, boolInt(r.texture != 0))
	}
	if r.texture != 0 {
		r.dev.BindTexture(r.texture)
		setInt(sh, gpucore.UniformTexture, 0)
	}
	r.dev.Draw(prim, 0, len(verts))
	r.rest(sh)
}

// DrawBloom draws bloom quads with the bloom shader in a single call.
func (r *Renderer) DrawBloom(verts []BloomVertex) {
	if len(verts) == 0 {
		return
	}
	sh := r.shaders.Bloom
	if !shaderReady(sh) {
		Logger().Debug("gfx: bloom draw skipped, shader not ready", "vertices", len(verts))
		return
	}
	r.bloomScratch = triangulate(r.bloomScratch[:0], verts)
	if len(r.bloomScratch) == 0 {
		return
	}
	r.encoded = AppendBloomVertices(r.encoded[:0], r.bloomScratch)
	if !r.bloomStream.upload(r.encoded, 0) {
		return
	}
	r.dev.BindVertexBuffer(r.bloomStream.id, BloomVertexLayout)
	sh.Bind()
	r.setMVP(sh)
	r.dev.Draw(gpucore.PrimitiveTriangles, 0, len(r.bloomScratch))
	r.rest(sh)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
