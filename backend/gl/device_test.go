package gl

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gourcego/gfx/gpucore"
)

func TestModeFor(t *testing.T) {
	tests := []struct {
		prim gpucore.Primitive
		want uint32
		ok   bool
	}{
		{gpucore.PrimitivePoints, gl.POINTS, true},
		{gpucore.PrimitiveLines, gl.LINES, true},
		{gpucore.PrimitiveLineStrip, gl.LINE_STRIP, true},
		{gpucore.PrimitiveLineLoop, gl.LINE_LOOP, true},
		{gpucore.PrimitiveTriangles, gl.TRIANGLES, true},
		{gpucore.PrimitiveTriangleStrip, gl.TRIANGLE_STRIP, true},
		{gpucore.PrimitiveTriangleFan, gl.TRIANGLE_FAN, true},
		{gpucore.PrimitiveQuads, 0, false},
	}
	for _, tt := range tests {
		got, ok := modeFor(tt.prim)
		if got != tt.want || ok != tt.ok {
			t.Errorf("modeFor(%s) = %#x, %v, want %#x, %v", tt.prim, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIndexType(t *testing.T) {
	tests := []struct {
		format gputypes.IndexFormat
		typ    uint32
		size   int
	}{
		{gputypes.IndexFormatUint16, gl.UNSIGNED_SHORT, 2},
		{gputypes.IndexFormatUint32, gl.UNSIGNED_INT, 4},
		{gputypes.IndexFormatUndefined, 0, 0},
	}
	for _, tt := range tests {
		typ, size := indexType(tt.format)
		if typ != tt.typ || size != tt.size {
			t.Errorf("indexType(%v) = %#x, %d, want %#x, %d", tt.format, typ, size, tt.typ, tt.size)
		}
	}
}

func TestTargetFor(t *testing.T) {
	if got := targetFor(gpucore.BufferVertex); got != gl.ARRAY_BUFFER {
		t.Errorf("targetFor(Vertex) = %#x, want ARRAY_BUFFER", got)
	}
	if got := targetFor(gpucore.BufferIndex); got != gl.ELEMENT_ARRAY_BUFFER {
		t.Errorf("targetFor(Index) = %#x, want ELEMENT_ARRAY_BUFFER", got)
	}
}

func TestToRGBA(t *testing.T) {
	packed := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if toRGBA(packed) != packed {
		t.Error("packed RGBA image was copied")
	}

	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.Set(6, 5, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	got := toRGBA(src)
	if got.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v, want (0,0)-(2,1)", got.Bounds())
	}
	if c := got.RGBAAt(1, 0); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel (1,0) = %v, want opaque white", c)
	}

	sub := image.NewRGBA(image.Rect(0, 0, 4, 4)).SubImage(image.Rect(1, 1, 3, 3))
	if got := toRGBA(sub); got.Stride != 8 {
		t.Errorf("sub-image stride = %d, want 8", got.Stride)
	}
}
