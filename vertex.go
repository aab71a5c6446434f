package gfx

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gourcego/gfx/gpucore"
)

// Vertex is an immediate-mode vertex: position, RGBA color and texture
// coordinates.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	TexCoord mgl32.Vec2
}

// QuadVertex is a QuadBuffer vertex. The fourth attribute holds texture
// coordinates.
type QuadVertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec4
	TexCoord mgl32.Vec2
}

// BloomVertex is a BloomBuffer vertex. Params holds
// (radius, center.x, center.y, center.z) in place of texture coordinates.
type BloomVertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec4
	Params   mgl32.Vec4
}

// Vertex strides in bytes.
const (
	VertexStride      = 36
	QuadVertexStride  = 32
	BloomVertexStride = 40
)

// VertexLayout is the interleaved layout of Vertex.
var VertexLayout = gpucore.VertexLayout{
	Label:  "gfx.Vertex",
	Stride: VertexStride,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 28, ShaderLocation: 2},
	},
}

// QuadVertexLayout is the interleaved layout of QuadVertex.
var QuadVertexLayout = gpucore.VertexLayout{
	Label:  "gfx.QuadVertex",
	Stride: QuadVertexStride,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	},
}

// BloomVertexLayout is the interleaved layout of BloomVertex.
var BloomVertexLayout = gpucore.VertexLayout{
	Label:  "gfx.BloomVertex",
	Stride: BloomVertexStride,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
	},
}

func putFloats(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// AppendVertices appends the little-endian encoding of vs to b.
func AppendVertices(b []byte, vs []Vertex) []byte {
	for i := range vs {
		v := &vs[i]
		b = putFloats(b, v.Position[0], v.Position[1], v.Position[2],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
			v.TexCoord[0], v.TexCoord[1])
	}
	return b
}

// AppendQuadVertices appends the little-endian encoding of vs to b.
func AppendQuadVertices(b []byte, vs []QuadVertex) []byte {
	for i := range vs {
		v := &vs[i]
		b = putFloats(b, v.Position[0], v.Position[1],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
			v.TexCoord[0], v.TexCoord[1])
	}
	return b
}

// AppendBloomVertices appends the little-endian encoding of vs to b.
func AppendBloomVertices(b []byte, vs []BloomVertex) []byte {
	for i := range vs {
		v := &vs[i]
		b = putFloats(b, v.Position[0], v.Position[1],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
			v.Params[0], v.Params[1], v.Params[2], v.Params[3])
	}
	return b
}

// quadCorners returns top-left, top-right, bottom-right, bottom-left of the
// rectangle at pos with the given size.
func quadCorners(pos, size mgl32.Vec2) [4]mgl32.Vec2 {
	return [4]mgl32.Vec2{
		pos,
		{pos[0] + size[0], pos[1]},
		pos.Add(size),
		{pos[0], pos[1] + size[1]},
	}
}

// triangulate expands each group of four vertices into two triangles
// (0,1,2)+(0,2,3). Trailing vertices that do not form a full quad are
// dropped.
func triangulate[V any](dst, quads []V) []V {
	for i := 0; i+3 < len(quads); i += 4 {
		dst = append(dst, quads[i], quads[i+1], quads[i+2], quads[i], quads[i+2], quads[i+3])
	}
	return dst
}
