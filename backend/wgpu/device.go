package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gourcego/gfx/gpucore"
)

// buffer is a gpucore buffer object. The hal buffer is created by the
// first BufferData call and replaced when a later call needs more room.
type buffer struct {
	kind gpucore.BufferKind
	buf  hal.Buffer
	size uint64

	// pass is the serial of the last pass that drew from the buffer.
	pass uint64
}

type bindState struct {
	vertex      gpucore.BufferID
	layout      gpucore.VertexLayout
	index       gpucore.BufferID
	indexFormat gputypes.IndexFormat
	texture     gpucore.TextureID
	shader      *Shader
}

// Stats counts device activity since creation or the last ResetStats.
type Stats struct {
	DrawCalls    int
	Uploads      int
	BytesWritten int
	Passes       int
	Flushes      int
	Frames       int

	// Skipped counts draws dropped because no frame was open, the shader
	// was missing or not ready, the primitive has no WebGPU topology, or a
	// required buffer was never filled.
	Skipped int
}

// Device is a gpucore.Device on a hal device and queue.
type Device struct {
	device hal.Device
	queue  hal.Queue
	opts   options
	logger *slog.Logger

	nextBuffer gpucore.BufferID
	buffers    map[gpucore.BufferID]*buffer

	nextTexture gpucore.TextureID
	textures    map[gpucore.TextureID]*texture
	white       *texture

	bind      bindings
	uniforms  uniformRing
	pipelines map[pipelineKey]hal.RenderPipeline
	shaders   []*Shader

	state  bindState
	frame  *frame
	serial uint64
	stats  Stats

	// retired holds releases deferred until the frame's work completes.
	retired []func()
}

// Compile-time interface check.
var _ gpucore.TextureDevice = (*Device)(nil)

// New creates a device that records into the given hal device and queue.
// The caller keeps ownership of both.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &Device{
		device:    device,
		queue:     queue,
		opts:      o,
		logger:    o.logger,
		buffers:   make(map[gpucore.BufferID]*buffer),
		textures:  make(map[gpucore.TextureID]*texture),
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if err := d.init(); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

// NewFromProvider creates a device on the hal device and queue shared by
// a gpucontext provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. The provider's surface
// format is used as the color target format unless an option overrides it.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	opts = append([]Option{WithFormat(provider.SurfaceFormat())}, opts...)
	return New(device, queue, opts...)
}

func (d *Device) init() error {
	if err := d.createBindings(); err != nil {
		return err
	}
	if err := d.uniforms.init(d, d.opts.uniformSlots); err != nil {
		return err
	}
	white, err := d.uploadTexture("gfx-white", 1, 1, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	if err != nil {
		return fmt.Errorf("wgpu: create white texture: %w", err)
	}
	d.white = white
	return nil
}

// SetLogger sets the device logger. A nil logger silences the device.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.logger = l
}

// Format returns the color target format.
func (d *Device) Format() gputypes.TextureFormat { return d.opts.format }

// Stats returns the activity counters.
func (d *Device) Stats() Stats { return d.stats }

// ResetStats zeroes the activity counters.
func (d *Device) ResetStats() { d.stats = Stats{} }

// Destroy releases every GPU object the device created. An open frame is
// abandoned without submitting. The hal device and queue are left alone.
func (d *Device) Destroy() {
	if d.frame != nil {
		d.abandonFrame()
	}
	for _, s := range append([]*Shader(nil), d.shaders...) {
		s.Destroy()
	}
	for id := range d.buffers {
		d.DestroyBuffer(id)
	}
	for id := range d.textures {
		d.DestroyTexture(id)
	}
	if d.white != nil {
		d.white.destroy(d.device)
		d.white = nil
	}
	d.uniforms.destroy(d.device)
	d.destroyBindings()
	d.runRetired()
}

// retire runs fn now, or at the end of the open frame.
func (d *Device) retire(fn func()) {
	if d.frame != nil {
		d.retired = append(d.retired, fn)
		return
	}
	fn()
}

func (d *Device) runRetired() {
	for _, fn := range d.retired {
		fn()
	}
	d.retired = d.retired[:0]
}

// CreateBuffer implements gpucore.Device. Storage is allocated by the
// first BufferData call.
func (d *Device) CreateBuffer(kind gpucore.BufferKind) (gpucore.BufferID, error) {
	if kind != gpucore.BufferVertex && kind != gpucore.BufferIndex {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create buffer: unsupported kind %s", kind)
	}
	d.nextBuffer++
	d.buffers[d.nextBuffer] = &buffer{kind: kind}
	return d.nextBuffer, nil
}

// DestroyBuffer implements gpucore.Device.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	b, ok := d.buffers[id]
	if !ok {
		return
	}
	delete(d.buffers, id)
	if b.buf != nil {
		hb := b.buf
		d.retire(func() { d.device.DestroyBuffer(hb) })
	}
	if d.state.vertex == id {
		d.state.vertex = gpucore.InvalidID
	}
	if d.state.index == id {
		d.state.index = gpucore.InvalidID
	}
}

// BufferData implements gpucore.Device. Storage only grows; a request that
// fits the current allocation reuses it.
func (d *Device) BufferData(id gpucore.BufferID, data []byte, size int) {
	b, ok := d.buffers[id]
	if !ok {
		d.logger.Debug("wgpu: data for unknown buffer", "buffer", id)
		return
	}
	need := uint64(max(size, len(data), 4)) //nolint:gosec // non-negative
	need = align4(need)
	if b.buf == nil || need > b.size {
		hb, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("gfx-%s-%d", b.kind, id),
			Size:  need,
			Usage: usageFor(b.kind),
		})
		if err != nil {
			d.logger.Warn("wgpu: buffer allocation failed", "buffer", id, "size", need, "err", err)
			return
		}
		if b.buf != nil {
			old := b.buf
			d.retire(func() { d.device.DestroyBuffer(old) })
		}
		b.buf, b.size, b.pass = hb, need, 0
	}
	d.write(b, 0, data)
}

// BufferSubData implements gpucore.Device. Writes outside the allocation or
// at an offset that is not a multiple of four are dropped.
func (d *Device) BufferSubData(id gpucore.BufferID, offset int, data []byte) {
	b, ok := d.buffers[id]
	if !ok || b.buf == nil {
		d.logger.Debug("wgpu: sub-data for unallocated buffer", "buffer", id)
		return
	}
	if offset < 0 || offset%4 != 0 || uint64(offset+len(data)) > b.size { //nolint:gosec // checked non-negative
		d.logger.Warn("wgpu: sub-data out of range", "buffer", id, "offset", offset, "len", len(data), "size", b.size)
		return
	}
	d.write(b, uint64(offset), data)
}

// write uploads data through the queue. A buffer the open pass has drawn
// from is flushed first so earlier draws keep the old contents.
func (d *Device) write(b *buffer, offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	if d.frame != nil && b.pass == d.serial {
		d.flush()
	}
	if len(data)%4 != 0 {
		padded := make([]byte, align4(uint64(len(data))))
		copy(padded, data)
		data = padded
	}
	if err := d.queue.WriteBuffer(b.buf, offset, data); err != nil {
		d.logger.Warn("wgpu: buffer write failed", "kind", b.kind, "err", err)
		return
	}
	d.stats.Uploads++
	d.stats.BytesWritten += len(data)
}

// BindVertexBuffer implements gpucore.Device.
func (d *Device) BindVertexBuffer(id gpucore.BufferID, layout gpucore.VertexLayout) {
	d.state.vertex = id
	d.state.layout = layout
}

// BindIndexBuffer implements gpucore.Device.
func (d *Device) BindIndexBuffer(id gpucore.BufferID, format gputypes.IndexFormat) {
	d.state.index = id
	d.state.indexFormat = format
}

// BindTexture implements gpucore.Device.
func (d *Device) BindTexture(tex gpucore.TextureID) { d.state.texture = tex }

// Draw implements gpucore.Device.
func (d *Device) Draw(prim gpucore.Primitive, first, count int) {
	if count <= 0 || first < 0 {
		return
	}
	pass, ok := d.prepare(prim, false)
	if !ok {
		return
	}
	pass.Draw(uint32(count), 1, uint32(first), 0) //nolint:gosec // checked non-negative
	d.stats.DrawCalls++
}

// DrawIndexed implements gpucore.Device.
func (d *Device) DrawIndexed(prim gpucore.Primitive, first, count int) {
	if count <= 0 || first < 0 {
		return
	}
	pass, ok := d.prepare(prim, true)
	if !ok {
		return
	}
	pass.DrawIndexed(uint32(count), 1, uint32(first), 0, 0) //nolint:gosec // checked non-negative
	d.stats.DrawCalls++
}

// prepare sets pipeline, bind groups and buffers on the open pass for the
// current bind state.
func (d *Device) prepare(prim gpucore.Primitive, indexed bool) (hal.RenderPassEncoder, bool) {
	skip := func(reason string) (hal.RenderPassEncoder, bool) {
		d.stats.Skipped++
		d.logger.Debug("wgpu: draw skipped", "reason", reason, "primitive", prim)
		return nil, false
	}
	if d.frame == nil || d.frame.pass == nil {
		return skip("no frame")
	}
	sh := d.state.shader
	if sh == nil || !sh.Ready() {
		return skip("shader not ready")
	}
	topology, ok := topologyFor(prim)
	if !ok {
		return skip("unsupported primitive")
	}
	vb := d.buffers[d.state.vertex]
	if vb == nil || vb.buf == nil {
		return skip("no vertex buffer")
	}
	var ib *buffer
	if indexed {
		ib = d.buffers[d.state.index]
		if ib == nil || ib.buf == nil {
			return skip("no index buffer")
		}
	}

	key := pipelineKey{shader: sh, layout: d.state.layout.Label, stride: d.state.layout.Stride, topology: topology}
	p, err := d.pipeline(key, d.state.layout)
	if err != nil {
		d.logger.Warn("wgpu: pipeline unavailable", "err", err)
		return skip("no pipeline")
	}
	// May flush, so it runs before anything is set on the pass.
	offset, ok := d.uniformOffset(sh)
	if !ok || d.frame.pass == nil {
		return skip("uniform upload failed")
	}

	pass := d.frame.pass
	pass.SetPipeline(p)
	pass.SetBindGroup(0, d.uniforms.group, []uint32{offset})
	pass.SetBindGroup(1, d.textureGroup(d.state.texture), nil)
	pass.SetVertexBuffer(0, vb.buf, 0)
	vb.pass = d.serial
	if ib != nil {
		pass.SetIndexBuffer(ib.buf, d.state.indexFormat, 0)
		ib.pass = d.serial
	}
	return pass, true
}

func usageFor(kind gpucore.BufferKind) gputypes.BufferUsage {
	if kind == gpucore.BufferIndex {
		return gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	}
	return gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
}

func align4(n uint64) uint64 { return (n + 3) &^ 3 }
