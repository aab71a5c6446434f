package recording

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gourcego/gfx/gpucore"
)

// Device is an in-memory gpucore.Device that records every call.
//
// Buffer storage is kept as Go byte slices so callers can inspect exactly
// what was uploaded. The Device is not safe for concurrent use.
type Device struct {
	nextID   gpucore.BufferID
	buffers  map[gpucore.BufferID]*buffer
	commands []Command
	state    BindState
	logger   *slog.Logger

	// textures is indexed by TextureID-1; destroyed entries are nil.
	textures []image.Image

	// FailCreate makes CreateBuffer return an error, for exercising the
	// callers' failure paths.
	FailCreate bool
}

type buffer struct {
	kind gpucore.BufferKind
	data []byte

	// allocs counts BufferData calls (storage replacements).
	allocs int
}

// NewDevice creates an empty recording device.
func NewDevice() *Device {
	return &Device{
		buffers: make(map[gpucore.BufferID]*buffer),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger used for per-call debug output.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.logger = l
}

// CreateBuffer implements gpucore.Device.
func (d *Device) CreateBuffer(kind gpucore.BufferKind) (gpucore.BufferID, error) {
	if d.FailCreate {
		return gpucore.InvalidID, fmt.Errorf("recording: create %s buffer: %w", kind, ErrInjectedFailure)
	}
	d.nextID++
	id := d.nextID
	d.buffers[id] = &buffer{kind: kind}
	d.record(CreateBufferCommand{ID: id, Kind: kind})
	return id, nil
}

// DestroyBuffer implements gpucore.Device.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	if id == gpucore.InvalidID {
		return
	}
	delete(d.buffers, id)
	if d.state.VertexBuffer == id {
		d.state.VertexBuffer = gpucore.InvalidID
	}
	if d.state.IndexBuffer == id {
		d.state.IndexBuffer = gpucore.InvalidID
	}
	d.record(DestroyBufferCommand{ID: id})
}

// BufferData implements gpucore.Device.
func (d *Device) BufferData(id gpucore.BufferID, data []byte, size int) {
	b, ok := d.buffers[id]
	if !ok {
		d.logger.Warn("recording: BufferData on unknown buffer", "id", id)
		return
	}
	if size < len(data) {
		size = len(data)
	}
	b.data = make([]byte, size)
	copy(b.data, data)
	b.allocs++
	d.record(BufferDataCommand{ID: id, Size: size, Len: len(data)})
}

// BufferSubData implements gpucore.Device.
func (d *Device) BufferSubData(id gpucore.BufferID, offset int, data []byte) {
	b, ok := d.buffers[id]
	if !ok {
		d.logger.Warn("recording: BufferSubData on unknown buffer", "id", id)
		return
	}
	if offset+len(data) > len(b.data) {
		d.logger.Warn("recording: BufferSubData out of range",
			"id", id, "offset", offset, "len", len(data), "size", len(b.data))
		return
	}
	copy(b.data[offset:], data)
	d.record(BufferSubDataCommand{ID: id, Offset: offset, Len: len(data)})
}

// BindVertexBuffer implements gpucore.Device.
func (d *Device) BindVertexBuffer(id gpucore.BufferID, layout gpucore.VertexLayout) {
	d.state.VertexBuffer = id
	d.state.Layout = layout
	d.record(BindVertexBufferCommand{ID: id, Layout: layout})
}

// BindIndexBuffer implements gpucore.Device.
func (d *Device) BindIndexBuffer(id gpucore.BufferID, format gputypes.IndexFormat) {
	d.state.IndexBuffer = id
	d.state.IndexFormat = format
	d.record(BindIndexBufferCommand{ID: id, Format: format})
}

// BindTexture implements gpucore.Device.
func (d *Device) BindTexture(tex gpucore.TextureID) {
	d.state.Texture = tex
	d.record(BindTextureCommand{Texture: tex})
}

// Draw implements gpucore.Device.
func (d *Device) Draw(prim gpucore.Primitive, first, count int) {
	d.draw(false, prim, first, count)
}

// DrawIndexed implements gpucore.Device.
func (d *Device) DrawIndexed(prim gpucore.Primitive, first, count int) {
	d.draw(true, prim, first, count)
}

func (d *Device) draw(indexed bool, prim gpucore.Primitive, first, count int) {
	cmd := DrawCommand{
		Indexed:   indexed,
		Primitive: prim,
		First:     first,
		Count:     count,
		State:     d.state,
	}
	d.logger.Debug("recording: draw",
		"indexed", indexed, "primitive", prim, "first", first, "count", count,
		"texture", d.state.Texture, "shader", d.state.Shader)
	d.record(cmd)
}

func (d *Device) record(c Command) {
	d.commands = append(d.commands, c)
}

// Commands returns the recorded command log.
func (d *Device) Commands() []Command {
	return d.commands
}

// DrawCalls returns the recorded Draw and DrawIndexed commands in order.
func (d *Device) DrawCalls() []DrawCommand {
	var draws []DrawCommand
	for _, c := range d.commands {
		if dc, ok := c.(DrawCommand); ok {
			draws = append(draws, dc)
		}
	}
	return draws
}

// Bound returns the current bind state.
func (d *Device) Bound() BindState {
	return d.state
}

// BufferContents returns a copy of a buffer's storage, or nil if the buffer
// does not exist.
func (d *Device) BufferContents(id gpucore.BufferID) []byte {
	b, ok := d.buffers[id]
	if !ok {
		return nil
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Allocations returns how many times a buffer's storage was replaced.
func (d *Device) Allocations(id gpucore.BufferID) int {
	if b, ok := d.buffers[id]; ok {
		return b.allocs
	}
	return 0
}

// LiveBuffers returns the number of buffers not yet destroyed.
func (d *Device) LiveBuffers() int {
	return len(d.buffers)
}

// Reset clears the command log. Buffers and bind state are kept.
func (d *Device) Reset() {
	d.commands = d.commands[:0]
}

// Stats summarizes the command log.
type Stats struct {
	Commands     int
	DrawCalls    int
	Indexed      int
	Allocations  int
	Uploads      int
	BytesWritten int
	TextureBinds int
}

// Stats returns a summary of the command log.
func (d *Device) Stats() Stats {
	var s Stats
	s.Commands = len(d.commands)
	for _, c := range d.commands {
		switch cmd := c.(type) {
		case DrawCommand:
			s.DrawCalls++
			if cmd.Indexed {
				s.Indexed++
			}
		case BufferDataCommand:
			s.Allocations++
			s.Uploads++
			s.BytesWritten += cmd.Len
		case BufferSubDataCommand:
			s.Uploads++
			s.BytesWritten += cmd.Len
		case BindTextureCommand:
			if cmd.Texture != 0 {
				s.TextureBinds++
			}
		}
	}
	return s
}
