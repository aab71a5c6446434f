package gfx

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gourcego/gfx/gpucore"
	"github.com/gourcego/gfx/recording"
)

var opaque = mgl32.Vec4{1, 1, 1, 1}

func addQuads(qb *QuadBuffer, textures ...gpucore.TextureID) {
	for i, tex := range textures {
		qb.Add(tex, mgl32.Vec2{float32(i * 10), 0}, mgl32.Vec2{8, 8}, opaque)
	}
}

func TestQuadBufferTextureRuns(t *testing.T) {
	const a, b gpucore.TextureID = 11, 22
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 64)

	addQuads(qb, a, a, b, b, b, a)
	qb.Update()
	rig.dev.Reset()
	qb.Draw(true)

	draws := rig.dev.DrawCalls()
	if len(draws) != 3 {
		t.Fatalf("draw calls = %d, want 3", len(draws))
	}
	want := []struct {
		tex          gpucore.TextureID
		first, count int
	}{
		{a, 0, 12},  // quads 0-1
		{b, 12, 18}, // quads 2-4
		{a, 30, 6},  // quad 5
	}
	for i, w := range want {
		d := draws[i]
		if !d.Indexed || d.Primitive != gpucore.PrimitiveTriangles {
			t.Errorf("draw %d = %+v, want indexed triangles", i, d)
		}
		if d.State.Texture != w.tex || d.First != w.first || d.Count != w.count {
			t.Errorf("draw %d: texture=%d first=%d count=%d, want texture=%d first=%d count=%d",
				i, d.State.Texture, d.First, d.Count, w.tex, w.first, w.count)
		}
	}
	if qb.TextureChanges() != 3 {
		t.Errorf("TextureChanges() = %d, want 3", qb.TextureChanges())
	}
}

func TestQuadBufferNoRunsSingleDraw(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 16)
	addQuads(qb, 0, 0, 0, 0, 0)
	qb.Update()
	qb.Draw(true)

	draws := rig.dev.DrawCalls()
	if len(draws) != 1 || draws[0].First != 0 || draws[0].Count != 30 {
		t.Fatalf("draws = %+v, want one draw of 30 indices", draws)
	}
	if v, _ := rig.basic.Int(gpucore.UniformUseTexture); v != 0 {
		t.Errorf("u_use_texture = %d, want 0 without runs", v)
	}
}

func TestQuadBufferZeroTextureInheritsRun(t *testing.T) {
	const a, b gpucore.TextureID = 1, 2
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 16)

	addQuads(qb, a, 0, b)
	want := []TextureRun{{Start: 0, Texture: a}, {Start: 8, Texture: b}}
	got := qb.Runs()
	if len(got) != len(want) {
		t.Fatalf("Runs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Runs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	qb.Update()
	qb.Draw(true)
	draws := rig.dev.DrawCalls()
	if len(draws) != 2 || draws[0].Count != 12 || draws[0].State.Texture != a {
		t.Errorf("draws = %+v, want the zero-texture quad drawn with texture %d", draws, a)
	}
}

func TestQuadBufferLeadingUntexturedQuadsSkipped(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 16)
	addQuads(qb, 0, 0, 5, 5)
	qb.Update()
	qb.Draw(true)

	draws := rig.dev.DrawCalls()
	if len(draws) != qb.TextureChanges() {
		t.Fatalf("draw calls = %d, want one per texture run (%d)", len(draws), qb.TextureChanges())
	}
	if draws[0].State.Texture != 5 || draws[0].First != 12 || draws[0].Count != 12 {
		t.Errorf("run draw = %+v, want texture 5 over quads 2-3", draws[0])
	}
	if v, _ := rig.basic.Int(gpucore.UniformUseTexture); v != 1 {
		t.Errorf("u_use_texture = %d, want 1", v)
	}
}

func TestQuadBufferGrowthMatchesPresized(t *testing.T) {
	rig := newTestRig(t)
	grown := NewQuadBuffer(rig.r, 4)
	presized := NewQuadBuffer(rig.r, 400)

	for i := range 100 {
		tex := gpucore.TextureID(i / 7)
		pos := mgl32.Vec2{float32(i), float32(i * 2)}
		size := mgl32.Vec2{3, 4}
		col := mgl32.Vec4{float32(i) / 100, 0.5, 0.25, 1}
		uv := mgl32.Vec4{0.1, 0.2, 0.3, 0.4}
		grown.AddUV(tex, pos, size, col, uv)
		presized.AddUV(tex, pos, size, col, uv)
	}

	if grown.Capacity() <= 4 {
		t.Fatalf("Capacity() = %d, want growth beyond 4", grown.Capacity())
	}
	a := AppendQuadVertices(nil, grown.Data())
	b := AppendQuadVertices(nil, presized.Data())
	if !bytes.Equal(a, b) {
		t.Error("grown buffer data differs from pre-sized buffer data")
	}
	if len(grown.Runs()) != len(presized.Runs()) {
		t.Errorf("runs differ: %v vs %v", grown.Runs(), presized.Runs())
	}
}

func TestQuadBufferGrowthDoublesRequired(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 4)
	addQuads(qb, 0)
	if qb.Capacity() != 4 {
		t.Fatalf("Capacity() = %d, want 4", qb.Capacity())
	}
	addQuads(qb, 0)
	if qb.Capacity() != 16 {
		t.Errorf("Capacity() after overflow = %d, want 16", qb.Capacity())
	}
	qb.Reset()
	if qb.Capacity() != 16 {
		t.Errorf("Capacity() after Reset = %d, want 16", qb.Capacity())
	}
}

func TestQuadBufferReset(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 8)
	addQuads(qb, 1, 2, 3, 0, 4)
	qb.Update()
	qb.Draw(true)

	qb.Reset()
	if qb.Vertices() != 0 {
		t.Errorf("Vertices() = %d, want 0", qb.Vertices())
	}
	if qb.TextureChanges() != 0 {
		t.Errorf("TextureChanges() = %d, want 0", qb.TextureChanges())
	}
	if qb.State() != StateEmpty {
		t.Errorf("State() = %v, want Empty", qb.State())
	}
}

func TestQuadBufferAddGeometry(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 4)
	col := mgl32.Vec4{0.1, 0.2, 0.3, 0.4}
	qb.AddUV(0, mgl32.Vec2{1, 2}, mgl32.Vec2{10, 20}, col, mgl32.Vec4{0.25, 0.5, 0.75, 1})

	want := []QuadVertex{
		{Position: mgl32.Vec2{1, 2}, Color: col, TexCoord: mgl32.Vec2{0.25, 0.5}},
		{Position: mgl32.Vec2{11, 2}, Color: col, TexCoord: mgl32.Vec2{0.75, 0.5}},
		{Position: mgl32.Vec2{11, 22}, Color: col, TexCoord: mgl32.Vec2{0.75, 1}},
		{Position: mgl32.Vec2{1, 22}, Color: col, TexCoord: mgl32.Vec2{0.25, 1}},
	}
	got := qb.Data()
	if len(got) != 4 {
		t.Fatalf("len(Data()) = %d, want 4", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	qb.Reset()
	qb.Add(0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, col)
	uv := []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, v := range qb.Data() {
		if v.TexCoord != uv[i] {
			t.Errorf("default uv %d = %v, want %v", i, v.TexCoord, uv[i])
		}
	}
}

func TestQuadBufferStateMachine(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 8)

	steps := []struct {
		name string
		op   func()
		want BatchState
	}{
		{"new", func() {}, StateEmpty},
		{"add", func() { addQuads(qb, 1) }, StateAccumulating},
		{"update", qb.Update, StateStaged},
		{"draw", func() { qb.Draw(true) }, StateDrawn},
		{"draw again", func() { qb.Draw(true) }, StateDrawn},
		{"add after draw", func() { addQuads(qb, 1) }, StateAccumulating},
		{"reset", qb.Reset, StateEmpty},
	}
	for _, s := range steps {
		s.op()
		if qb.State() != s.want {
			t.Errorf("%s: State() = %v, want %v", s.name, qb.State(), s.want)
		}
	}
}

func TestQuadBufferEmptyIsNoop(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 8)
	qb.Update()
	qb.Draw(true)
	if n := len(rig.dev.Commands()); n != 0 {
		t.Errorf("empty Update/Draw recorded %d commands, want 0", n)
	}
}

func TestQuadBufferUpdateReusesAllocation(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 16)

	for range 3 {
		qb.Reset()
		addQuads(qb, 1, 1, 2)
		qb.Update()
	}
	if got := rig.dev.Allocations(qb.vbo.id); got != 1 {
		t.Errorf("allocations = %d, want 1", got)
	}
	if got := len(rig.dev.BufferContents(qb.vbo.id)); got != 16*QuadVertexStride {
		t.Errorf("GPU storage = %d bytes, want capacity-sized %d", got, 16*QuadVertexStride)
	}

	addQuads(qb, 3, 3, 3, 3, 3, 3)
	qb.Update()
	if got := rig.dev.Allocations(qb.vbo.id); got != 2 {
		t.Errorf("allocations after growth = %d, want 2", got)
	}
}

func TestQuadBufferDrawLeavesDeviceAtRest(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 8)
	addQuads(qb, 4, 5)
	qb.Update()
	qb.Draw(true)
	if !rig.dev.Bound().AtRest() {
		t.Errorf("bind state = %+v, want at rest", rig.dev.Bound())
	}
}

func TestQuadBufferDrawWithCallerShader(t *testing.T) {
	rig := newTestRig(t)
	shadow := recording.NewShader(rig.dev, "shadow")
	qb := NewQuadBuffer(rig.r, 8)
	addQuads(qb, 4)
	qb.Update()

	shadow.Bind()
	qb.Draw(false)

	draws := rig.dev.DrawCalls()
	if len(draws) != 1 || draws[0].State.Shader != "shadow" {
		t.Fatalf("draws = %+v, want one draw under the caller's shader", draws)
	}
	if _, ok := rig.basic.Mat4(gpucore.UniformMVP); ok {
		t.Error("Draw(false) should not touch the basic shader")
	}
	if rig.dev.Bound().Shader != "shadow" {
		t.Error("Draw(false) unbound the caller's shader")
	}
}

func TestQuadBufferDrawWithShader(t *testing.T) {
	rig := newTestRig(t)
	txt := recording.NewShader(rig.dev, "text")
	qb := NewQuadBuffer(rig.r, 8)
	addQuads(qb, 4)
	qb.Update()
	rig.r.Mode2D(100, 50)

	qb.DrawWithShader(txt)

	draws := rig.dev.DrawCalls()
	if len(draws) != 1 || draws[0].State.Shader != "text" {
		t.Fatalf("draws = %+v, want one draw under the text shader", draws)
	}
	got, ok := txt.Mat4(gpucore.UniformMVP)
	if !ok || got != [16]float32(rig.r.MVP()) {
		t.Errorf("u_mvp = %v, %v, want current MVP", got, ok)
	}
	if !rig.dev.Bound().AtRest() {
		t.Errorf("bind state = %+v, want at rest", rig.dev.Bound())
	}

	txt.NotReady = true
	rig.dev.Reset()
	qb.DrawWithShader(txt)
	qb.DrawWithShader(nil)
	if n := len(rig.dev.DrawCalls()); n != 0 {
		t.Errorf("draw calls with unusable shader = %d, want 0", n)
	}
}

func TestQuadBufferShaderNotReady(t *testing.T) {
	rig := newTestRig(t)
	rig.basic.NotReady = true
	qb := NewQuadBuffer(rig.r, 8)
	addQuads(qb, 1)
	qb.Update()
	qb.Draw(true)
	if n := len(rig.dev.DrawCalls()); n != 0 {
		t.Errorf("draw calls = %d, want 0", n)
	}
}

func TestQuadBufferIndexFormat(t *testing.T) {
	tests := []struct {
		name  string
		quads int
		want  gputypes.IndexFormat
	}{
		{"small", 10, gputypes.IndexFormatUint16},
		{"exactly 65536 vertices", 1 << 14, gputypes.IndexFormatUint16},
		{"one quad over", 1<<14 + 1, gputypes.IndexFormatUint32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig(t)
			qb := NewQuadBuffer(rig.r, tt.quads*4)
			for range tt.quads {
				qb.Add(0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, opaque)
			}
			qb.Update()
			qb.Draw(true)

			draws := rig.dev.DrawCalls()
			if len(draws) != 1 {
				t.Fatalf("draw calls = %d, want 1", len(draws))
			}
			if draws[0].State.IndexFormat != tt.want {
				t.Errorf("index format = %v, want %v", draws[0].State.IndexFormat, tt.want)
			}
			if draws[0].Count != tt.quads*6 {
				t.Errorf("index count = %d, want %d", draws[0].Count, tt.quads*6)
			}
		})
	}
}

func TestAppendQuadIndices(t *testing.T) {
	b := appendQuadIndices(nil, 2, gputypes.IndexFormatUint16)
	want := []uint16{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}
	if len(b) != len(want)*2 {
		t.Fatalf("len = %d, want %d", len(b), len(want)*2)
	}
	for i, w := range want {
		if got := uint16(b[2*i]) | uint16(b[2*i+1])<<8; got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestQuadBufferRelease(t *testing.T) {
	rig := newTestRig(t)
	qb := NewQuadBuffer(rig.r, 8)
	addQuads(qb, 1)
	qb.Update()
	qb.Draw(true)
	live := rig.dev.LiveBuffers()

	qb.Release()
	if got := rig.dev.LiveBuffers(); got != live-2 {
		t.Errorf("live buffers after Release = %d, want %d", got, live-2)
	}
	if qb.State() != StateAccumulating {
		t.Errorf("State() after Release = %v, want Accumulating", qb.State())
	}
}

func BenchmarkQuadBufferFrame(b *testing.B) {
	dev := recording.NewDevice()
	r, err := NewRenderer(dev, WithShaders(ShaderSet{Basic: recording.NewShader(dev, "basic")}))
	if err != nil {
		b.Fatal(err)
	}
	qb := NewQuadBuffer(r, 0)
	b.ReportAllocs()
	for b.Loop() {
		qb.Reset()
		for i := range 1000 {
			qb.Add(gpucore.TextureID(i/50+1), mgl32.Vec2{float32(i), 0}, mgl32.Vec2{4, 4}, opaque)
		}
		qb.Update()
		qb.Draw(true)
		dev.Reset()
	}
}
