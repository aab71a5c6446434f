package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// uniformRing is a uniform buffer of fixed-size slots bound once with a
// dynamic offset. Each pass fills slots from the start; a full ring flushes
// the pass so slots can be reused.
type uniformRing struct {
	buf   hal.Buffer
	group hal.BindGroup
	slots int
	next  int
}

func (u *uniformRing) init(d *Device, slots int) error {
	size := uint64(slots) * uniformStride //nolint:gosec // slots is positive
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gfx-uniform-ring",
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform ring: %w", err)
	}
	u.buf = buf
	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "gfx-uniforms",
		Layout: d.bind.uniformLayout,
		Entries: []gputypes.BindGroupEntry{{
			Binding: 0,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: 0,
				Size:   uniformBlockSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform bind group: %w", err)
	}
	u.group = group
	u.slots = slots
	return nil
}

func (u *uniformRing) destroy(dev hal.Device) {
	if u.group != nil {
		dev.DestroyBindGroup(u.group)
	}
	if u.buf != nil {
		dev.DestroyBuffer(u.buf)
	}
	*u = uniformRing{}
}

// uniformOffset returns the ring offset holding the shader's current
// uniform block, uploading it when it changed or was last written in an
// earlier pass.
func (d *Device) uniformOffset(s *Shader) (uint32, bool) {
	if !s.dirty && s.pass == d.serial {
		return s.offset, true
	}
	if d.uniforms.next >= d.uniforms.slots {
		d.flush()
		if d.frame.pass == nil {
			return 0, false
		}
	}
	off := uint32(d.uniforms.next * uniformStride) //nolint:gosec // bounded by ring size
	if err := d.queue.WriteBuffer(d.uniforms.buf, uint64(off), s.block[:]); err != nil {
		d.logger.Warn("wgpu: uniform write failed", "shader", s.kind, "err", err)
		return 0, false
	}
	d.uniforms.next++
	s.offset, s.pass, s.dirty = off, d.serial, false
	return off, true
}
