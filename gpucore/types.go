package gpucore

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BufferID is an opaque handle to a GPU buffer object.
type BufferID uint64

// TextureID is an integer texture handle. Zero means untextured.
type TextureID uint32

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferKind tells the backend how a buffer will be bound.
type BufferKind uint8

// Buffer kinds.
const (
	// BufferVertex holds interleaved vertex data.
	BufferVertex BufferKind = iota + 1

	// BufferIndex holds triangle indices.
	BufferIndex
)

// String returns the string representation of BufferKind.
func (k BufferKind) String() string {
	switch k {
	case BufferVertex:
		return "Vertex"
	case BufferIndex:
		return "Index"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Primitive is the topology of a vertex stream.
type Primitive uint8

// Primitive kinds.
const (
	PrimitivePoints Primitive = iota + 1
	PrimitiveLines
	PrimitiveLineStrip
	PrimitiveLineLoop
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan

	// PrimitiveQuads is emulated by the batching layer: every group of four
	// vertices is split into two triangles before it reaches a Device.
	// Devices never receive it.
	PrimitiveQuads
)

var primitiveNames = [...]string{
	PrimitivePoints:        "Points",
	PrimitiveLines:         "Lines",
	PrimitiveLineStrip:     "LineStrip",
	PrimitiveLineLoop:      "LineLoop",
	PrimitiveTriangles:     "Triangles",
	PrimitiveTriangleStrip: "TriangleStrip",
	PrimitiveTriangleFan:   "TriangleFan",
	PrimitiveQuads:         "Quads",
}

// String returns the string representation of Primitive.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) && primitiveNames[p] != "" {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Unknown(%d)", int(p))
}

// VertexLayout describes a fixed interleaved vertex format.
type VertexLayout struct {
	// Label is an optional debug label.
	Label string

	// Stride is the byte distance between consecutive vertices.
	Stride uint32

	// Attributes lists the interleaved attributes. ShaderLocation 0 is the
	// position, 1 the color and 2 the buffer-specific fourth slot (texture
	// coordinates or bloom parameters).
	Attributes []gputypes.VertexAttribute
}

// BufferLayout converts the layout to a gputypes vertex buffer layout.
func (l VertexLayout) BufferLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(l.Stride),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  l.Attributes,
	}
}

// Components returns the float component count of an attribute format.
// Unsupported formats return 0.
func Components(f gputypes.VertexFormat) int32 {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 1
	case gputypes.VertexFormatFloat32x2:
		return 2
	case gputypes.VertexFormatFloat32x3:
		return 3
	case gputypes.VertexFormatFloat32x4:
		return 4
	default:
		return 0
	}
}

// Well-known uniform names set by the batching layer.
const (
	// UniformMVP is the model-view-projection matrix (mat4).
	UniformMVP = "u_mvp"

	// UniformTexture is the sampler bound to texture unit 0.
	UniformTexture = "u_texture"

	// UniformUseTexture toggles texture sampling in the basic shader.
	UniformUseTexture = "u_use_texture"
)
