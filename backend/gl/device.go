package gl

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gourcego/gfx/gpucore"
)

var (
	// ErrInit is returned when the GL function pointers cannot be loaded.
	ErrInit = errors.New("gl: init failed")

	// ErrFrame is returned by Backend.EndFrame when GL raised an error
	// during the frame.
	ErrFrame = errors.New("gl: error during frame")
)

type glBuffer struct {
	kind gpucore.BufferKind
	size int
}

// Device is a gpucore.Device on the current OpenGL context.
type Device struct {
	vao     uint32
	buffers map[gpucore.BufferID]*glBuffer
	logger  *slog.Logger

	vertex      gpucore.BufferID
	attributes  int
	indexType   uint32
	indexSize   int
	drawCalls   int
	textureBind gpucore.TextureID
}

// Compile-time interface check.
var _ gpucore.TextureDevice = (*Device)(nil)

// New loads the GL entry points and creates the device. A context must be
// current on the calling thread.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	d := &Device{
		buffers: make(map[gpucore.BufferID]*glBuffer),
		logger:  slog.New(slog.DiscardHandler),
	}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	return d, nil
}

// SetLogger sets the device logger. A nil logger silences the device.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.logger = l
}

// Version returns the GL version string of the current context.
func (d *Device) Version() string { return gl.GoStr(gl.GetString(gl.VERSION)) }

// BeginFrame sets the viewport and clears the color buffer.
func (d *Device) BeginFrame(width, height int, r, g, b, a float32) {
	gl.Viewport(0, 0, int32(width), int32(height)) //nolint:gosec // framebuffer size
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	d.drawCalls = 0
}

// Error returns and clears the oldest GL error flag, 0 when none is set.
func (d *Device) Error() uint32 { return gl.GetError() }

// DrawCalls returns the draws issued since the last BeginFrame.
func (d *Device) DrawCalls() int { return d.drawCalls }

// Destroy deletes the buffers and the vertex array.
func (d *Device) Destroy() {
	for id := range d.buffers {
		d.DestroyBuffer(id)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// CreateBuffer implements gpucore.Device. The buffer id is the GL name.
func (d *Device) CreateBuffer(kind gpucore.BufferKind) (gpucore.BufferID, error) {
	var name uint32
	gl.GenBuffers(1, &name)
	if name == 0 {
		return gpucore.InvalidID, fmt.Errorf("gl: glGenBuffers returned 0 for %s buffer", kind)
	}
	id := gpucore.BufferID(name)
	d.buffers[id] = &glBuffer{kind: kind}
	return id, nil
}

// DestroyBuffer implements gpucore.Device.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	if _, ok := d.buffers[id]; !ok {
		return
	}
	delete(d.buffers, id)
	name := uint32(id)
	gl.DeleteBuffers(1, &name)
	if d.vertex == id {
		d.vertex = gpucore.InvalidID
	}
}

// BufferData implements gpucore.Device.
func (d *Device) BufferData(id gpucore.BufferID, data []byte, size int) {
	b, ok := d.buffers[id]
	if !ok {
		d.logger.Debug("gl: data for unknown buffer", "buffer", id)
		return
	}
	size = max(size, len(data))
	target := targetFor(b.kind)
	gl.BindBuffer(target, uint32(id))
	gl.BufferData(target, size, nil, gl.DYNAMIC_DRAW)
	if len(data) > 0 {
		gl.BufferSubData(target, 0, len(data), unsafe.Pointer(&data[0]))
	}
	b.size = size
	d.restoreBinding(b.kind)
}

// BufferSubData implements gpucore.Device.
func (d *Device) BufferSubData(id gpucore.BufferID, offset int, data []byte) {
	b, ok := d.buffers[id]
	if !ok || len(data) == 0 {
		return
	}
	if offset < 0 || offset+len(data) > b.size {
		d.logger.Warn("gl: sub-data out of range", "buffer", id, "offset", offset, "len", len(data), "size", b.size)
		return
	}
	target := targetFor(b.kind)
	gl.BindBuffer(target, uint32(id))
	gl.BufferSubData(target, offset, len(data), unsafe.Pointer(&data[0]))
	d.restoreBinding(b.kind)
}

// restoreBinding puts back the array buffer binding after an upload.
// Element array bindings live in the vertex array and are left alone.
func (d *Device) restoreBinding(kind gpucore.BufferKind) {
	if kind == gpucore.BufferVertex {
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(d.vertex))
	}
}

// BindVertexBuffer implements gpucore.Device.
func (d *Device) BindVertexBuffer(id gpucore.BufferID, layout gpucore.VertexLayout) {
	for i := 0; i < d.attributes; i++ {
		gl.DisableVertexAttribArray(uint32(i)) //nolint:gosec // small index
	}
	d.attributes = 0
	d.vertex = id
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(id))
	if id == gpucore.InvalidID {
		return
	}
	for _, a := range layout.Attributes {
		n := gpucore.Components(a.Format)
		if n == 0 {
			d.logger.Debug("gl: unsupported attribute format", "format", a.Format)
			continue
		}
		gl.EnableVertexAttribArray(a.ShaderLocation)
		gl.VertexAttribPointerWithOffset(a.ShaderLocation, n, gl.FLOAT, false, int32(layout.Stride), uintptr(a.Offset)) //nolint:gosec // stride is small
		d.attributes = max(d.attributes, int(a.ShaderLocation)+1)
	}
}

// BindIndexBuffer implements gpucore.Device.
func (d *Device) BindIndexBuffer(id gpucore.BufferID, format gputypes.IndexFormat) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(id))
	d.indexType, d.indexSize = indexType(format)
}

// BindTexture implements gpucore.Device.
func (d *Device) BindTexture(tex gpucore.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	d.textureBind = tex
}

// Draw implements gpucore.Device.
func (d *Device) Draw(prim gpucore.Primitive, first, count int) {
	mode, ok := modeFor(prim)
	if !ok || count <= 0 {
		d.logger.Debug("gl: draw skipped", "primitive", prim, "count", count)
		return
	}
	gl.DrawArrays(mode, int32(first), int32(count)) //nolint:gosec // vertex counts fit int32
	d.drawCalls++
}

// DrawIndexed implements gpucore.Device.
func (d *Device) DrawIndexed(prim gpucore.Primitive, first, count int) {
	mode, ok := modeFor(prim)
	if !ok || count <= 0 || d.indexSize == 0 {
		d.logger.Debug("gl: indexed draw skipped", "primitive", prim, "count", count)
		return
	}
	gl.DrawElementsWithOffset(mode, int32(count), d.indexType, uintptr(first*d.indexSize)) //nolint:gosec // index counts fit int32
	d.drawCalls++
}

func targetFor(kind gpucore.BufferKind) uint32 {
	if kind == gpucore.BufferIndex {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// modeFor maps a primitive to a GL draw mode. Quads are not part of the
// core profile.
func modeFor(p gpucore.Primitive) (uint32, bool) {
	switch p {
	case gpucore.PrimitivePoints:
		return gl.POINTS, true
	case gpucore.PrimitiveLines:
		return gl.LINES, true
	case gpucore.PrimitiveLineStrip:
		return gl.LINE_STRIP, true
	case gpucore.PrimitiveLineLoop:
		return gl.LINE_LOOP, true
	case gpucore.PrimitiveTriangles:
		return gl.TRIANGLES, true
	case gpucore.PrimitiveTriangleStrip:
		return gl.TRIANGLE_STRIP, true
	case gpucore.PrimitiveTriangleFan:
		return gl.TRIANGLE_FAN, true
	default:
		return 0, false
	}
}

// indexType returns the GL index type and its size in bytes.
func indexType(f gputypes.IndexFormat) (uint32, int) {
	switch f {
	case gputypes.IndexFormatUint16:
		return gl.UNSIGNED_SHORT, 2
	case gputypes.IndexFormatUint32:
		return gl.UNSIGNED_INT, 4
	default:
		return 0, 0
	}
}
