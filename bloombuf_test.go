package gfx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func addBloom(bb *BloomBuffer, n int) {
	for i := range n {
		bb.Add(0, mgl32.Vec2{float32(i * 4), float32(i)}, mgl32.Vec2{2, 3},
			mgl32.Vec4{1, 0.5, 0, 1}, mgl32.Vec4{float32(i + 1), float32(i), 0, 0})
	}
}

func TestBloomBufferConvertQuadsToTriangles(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7} {
		rig := newTestRig(t)
		bb := NewBloomBuffer(rig.r, 4)
		addBloom(bb, n)
		before := append([]BloomVertex(nil), bb.Data()...)

		bb.ConvertQuadsToTriangles()
		tris := bb.Triangles()
		if len(tris) != 6*n {
			t.Fatalf("n=%d: len(Triangles()) = %d, want %d", n, len(tris), 6*n)
		}
		src := bb.Data()
		for k := range n {
			q := src[k*4 : k*4+4]
			want := []BloomVertex{q[0], q[1], q[2], q[0], q[2], q[3]}
			for i, w := range want {
				if tris[k*6+i] != w {
					t.Errorf("n=%d quad %d triangle vertex %d = %+v, want %+v", n, k, i, tris[k*6+i], w)
				}
			}
		}
		for i := range before {
			if src[i] != before[i] {
				t.Fatalf("n=%d: conversion modified source vertex %d", n, i)
			}
		}
	}
}

func TestBloomBufferParamsSlot(t *testing.T) {
	rig := newTestRig(t)
	bb := NewBloomBuffer(rig.r, 4)
	params := mgl32.Vec4{12, 1, 2, 3}
	bb.Add(5, mgl32.Vec2{0, 0}, mgl32.Vec2{4, 4}, mgl32.Vec4{1, 1, 1, 1}, params)
	for i, v := range bb.Data() {
		if v.Params != params {
			t.Errorf("vertex %d params = %v, want %v", i, v.Params, params)
		}
	}
}

func TestBloomBufferSingleDraw(t *testing.T) {
	rig := newTestRig(t)
	bb := NewBloomBuffer(rig.r, 16)
	addBloom(bb, 5)
	bb.Update()
	bb.Draw()

	draws := rig.dev.DrawCalls()
	if len(draws) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(draws))
	}
	d := draws[0]
	if d.Indexed || d.Count != 30 || d.State.Shader != "bloom" {
		t.Errorf("draw = %+v, want one non-indexed bloom draw of 30", d)
	}
	if mvp, ok := rig.bloom.Mat4("u_mvp"); !ok || mvp != [16]float32(rig.r.MVP()) {
		t.Error("bloom draw did not set u_mvp to the current MVP")
	}
	if !rig.dev.Bound().AtRest() {
		t.Errorf("bind state = %+v, want at rest", rig.dev.Bound())
	}
}

func TestBloomBufferUpdateGrowth(t *testing.T) {
	rig := newTestRig(t)
	bb := NewBloomBuffer(rig.r, 4)

	frame := func(n int) {
		bb.Reset()
		addBloom(bb, n)
		bb.Update()
	}
	frame(4)
	frame(2)
	frame(4)
	frame(5)
	frame(1)

	id := bb.vbo.id
	if got := rig.dev.Allocations(id); got != 2 {
		t.Errorf("allocations = %d, want 2", got)
	}
	if got := len(rig.dev.BufferContents(id)); got != 30*BloomVertexStride {
		t.Errorf("GPU storage = %d bytes, want %d", got, 30*BloomVertexStride)
	}
}

func TestBloomBufferUpdateRetriangulates(t *testing.T) {
	rig := newTestRig(t)
	bb := NewBloomBuffer(rig.r, 4)
	addBloom(bb, 1)
	bb.Update()
	addBloom(bb, 1)
	bb.Update()
	if got := len(bb.Triangles()); got != 12 {
		t.Errorf("len(Triangles()) = %d, want 12", got)
	}
}

func TestBloomBufferReset(t *testing.T) {
	rig := newTestRig(t)
	bb := NewBloomBuffer(rig.r, 4)
	addBloom(bb, 3)
	bb.Update()
	capBefore := bb.Capacity()

	bb.Reset()
	if bb.Vertices() != 0 || len(bb.Triangles()) != 0 {
		t.Errorf("after Reset: Vertices()=%d Triangles()=%d, want 0, 0", bb.Vertices(), len(bb.Triangles()))
	}
	if bb.Capacity() != capBefore {
		t.Errorf("Capacity() after Reset = %d, want %d", bb.Capacity(), capBefore)
	}
	if bb.State() != StateEmpty {
		t.Errorf("State() = %v, want Empty", bb.State())
	}
	bb.Draw()
	if n := len(rig.dev.DrawCalls()); n != 0 {
		t.Errorf("Draw after Reset issued %d calls", n)
	}
}

func TestBloomBufferStateMachine(t *testing.T) {
	rig := newTestRig(t)
	bb := NewBloomBuffer(rig.r, 4)
	if bb.State() != StateEmpty {
		t.Fatalf("State() = %v, want Empty", bb.State())
	}
	addBloom(bb, 1)
	if bb.State() != StateAccumulating {
		t.Errorf("State() after Add = %v, want Accumulating", bb.State())
	}
	bb.Update()
	if bb.State() != StateStaged {
		t.Errorf("State() after Update = %v, want Staged", bb.State())
	}
	bb.Draw()
	bb.Draw()
	if bb.State() != StateDrawn {
		t.Errorf("State() after Draw = %v, want Drawn", bb.State())
	}
	if n := len(rig.dev.DrawCalls()); n != 2 {
		t.Errorf("draw calls = %d, want 2", n)
	}
}

func TestBloomBufferShaderNotReady(t *testing.T) {
	rig := newTestRig(t)
	rig.bloom.NotReady = true
	bb := NewBloomBuffer(rig.r, 4)
	addBloom(bb, 2)
	bb.Update()
	bb.Draw()
	if n := len(rig.dev.DrawCalls()); n != 0 {
		t.Errorf("draw calls = %d, want 0", n)
	}
}

func TestBatchStateString(t *testing.T) {
	tests := []struct {
		s    BatchState
		want string
	}{
		{StateEmpty, "Empty"},
		{StateAccumulating, "Accumulating"},
		{StateStaged, "Staged"},
		{StateDrawn, "Drawn"},
		{BatchState(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("BatchState(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
