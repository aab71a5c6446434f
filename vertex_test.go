package gfx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx/gpucore"
)

func TestLayoutStrides(t *testing.T) {
	tests := []struct {
		name   string
		layout gpucore.VertexLayout
		encode func() []byte
	}{
		{"Vertex", VertexLayout, func() []byte { return AppendVertices(nil, make([]Vertex, 1)) }},
		{"QuadVertex", QuadVertexLayout, func() []byte { return AppendQuadVertices(nil, make([]QuadVertex, 1)) }},
		{"BloomVertex", BloomVertexLayout, func() []byte { return AppendBloomVertices(nil, make([]BloomVertex, 1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.encode()); got != int(tt.layout.Stride) {
				t.Errorf("encoded size = %d, want stride %d", got, tt.layout.Stride)
			}
			// Attributes are tightly packed and cover the stride.
			var end uint64
			for i, a := range tt.layout.Attributes {
				if a.Offset != end {
					t.Errorf("attribute %d offset = %d, want %d", i, a.Offset, end)
				}
				if a.ShaderLocation != uint32(i) {
					t.Errorf("attribute %d location = %d", i, a.ShaderLocation)
				}
				end += uint64(gpucore.Components(a.Format)) * 4
			}
			if end != uint64(tt.layout.Stride) {
				t.Errorf("attributes end at %d, want %d", end, tt.layout.Stride)
			}
		})
	}
}

func TestAppendBloomVerticesOrder(t *testing.T) {
	v := BloomVertex{
		Position: mgl32.Vec2{1, 2},
		Color:    mgl32.Vec4{3, 4, 5, 6},
		Params:   mgl32.Vec4{7, 8, 9, 10},
	}
	got := floatsAt(AppendBloomVertices(nil, []BloomVertex{v}), 0, 10)
	for i, f := range got {
		if f != float32(i+1) {
			t.Errorf("float %d = %v, want %d", i, f, i+1)
		}
	}
}

func TestTriangulateDropsPartialQuad(t *testing.T) {
	got := triangulate(nil, []int{0, 1, 2, 3, 4, 5})
	want := []int{0, 1, 2, 0, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("triangulate = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("triangulate[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
