package wgpu_test

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/backend/wgpu"
	"github.com/gourcego/gfx/gpucore"
)

func openNoop(t *testing.T) (hal.Device, hal.Queue, hal.TextureView) {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	open, err := instance.EnumerateAdapters(nil)[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tex, _ := open.Device.CreateTexture(&hal.TextureDescriptor{
		Label:         "target",
		Size:          hal.Extent3D{Width: 320, Height: 240, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	view, _ := open.Device.CreateTextureView(tex, &hal.TextureViewDescriptor{})
	t.Cleanup(func() {
		open.Device.Destroy()
		instance.Destroy()
	})
	return open.Device, open.Queue, view
}

// mustShader builds an embedded program, skipping on naga gaps.
func mustShader(t *testing.T, d *wgpu.Device, kind wgpu.ShaderKind) *wgpu.Shader {
	t.Helper()
	s, err := d.NewShader(kind)
	if err != nil {
		if msg := err.Error(); strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
			t.Skipf("naga limitation: %v", err)
		}
		t.Fatalf("NewShader(%s): %v", kind, err)
	}
	return s
}

func TestRendererFrame(t *testing.T) {
	halDev, queue, view := openNoop(t)
	dev, err := wgpu.New(halDev, queue)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer dev.Destroy()

	basic := mustShader(t, dev, wgpu.ShaderBasic)
	bloom := mustShader(t, dev, wgpu.ShaderBloom)
	r, err := gfx.NewRenderer(dev, gfx.WithShaders(gfx.ShaderSet{Basic: basic, Bloom: bloom}))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	defer r.Release()

	qb := gfx.NewQuadBuffer(r, 16)
	defer qb.Release()
	bb := gfx.NewBloomBuffer(r, 16)
	defer bb.Release()

	white := mgl32.Vec4{1, 1, 1, 1}
	qb.Add(0, mgl32.Vec2{0, 0}, mgl32.Vec2{10, 10}, white)
	qb.Add(0, mgl32.Vec2{20, 0}, mgl32.Vec2{10, 10}, white)
	bb.Add(0, mgl32.Vec2{0, 0}, mgl32.Vec2{40, 40}, white, mgl32.Vec4{20, 20, 20, 0})

	if err := dev.BeginFrame(view, 320, 240); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	r.Mode2D(320, 240)
	r.DrawQuad(100, 100, 20, 20, white)
	qb.Update()
	qb.Draw(true)
	bb.Update()
	bb.Draw()
	if err := dev.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}

	st := dev.Stats()
	if st.DrawCalls != 3 {
		t.Errorf("DrawCalls = %d, want 3", st.DrawCalls)
	}
	if st.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", st.Skipped)
	}

	// The renderer leaves the device at rest, so a stray draw is skipped.
	_ = dev.BeginFrame(view, 320, 240)
	dev.Draw(gpucore.PrimitiveTriangles, 0, 3)
	_ = dev.EndFrame()
	if got := dev.Stats().Skipped; got != 1 {
		t.Errorf("Skipped after stray draw = %d, want 1", got)
	}
}
