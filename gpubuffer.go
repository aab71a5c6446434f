package gfx

import (
	"github.com/gourcego/gfx/gpucore"
)

// gpuBuffer is a grow-only GPU buffer owned by one component.
//
// Storage is created lazily on first upload and replaced only when an
// upload needs more than the current allocation; otherwise data is written
// in place.
type gpuBuffer struct {
	dev   gpucore.Device
	kind  gpucore.BufferKind
	label string

	id   gpucore.BufferID
	size int

	// failed suppresses repeated warnings after CreateBuffer fails.
	failed bool
}

func newGPUBuffer(dev gpucore.Device, kind gpucore.BufferKind, label string) *gpuBuffer {
	return &gpuBuffer{dev: dev, kind: kind, label: label}
}

// upload writes data at offset 0. reserve is the minimum allocation size in
// bytes used when storage has to be (re)allocated. It reports whether the
// buffer holds the data afterwards.
func (b *gpuBuffer) upload(data []byte, reserve int) bool {
	if len(data) == 0 {
		return b.id != gpucore.InvalidID
	}
	if b.id == gpucore.InvalidID {
		id, err := b.dev.CreateBuffer(b.kind)
		if err != nil {
			if !b.failed {
				Logger().Warn("gfx: create buffer failed", "buffer", b.label, "err", err)
				b.failed = true
			}
			return false
		}
		b.id = id
		b.failed = false
	}
	if reserve < len(data) {
		reserve = len(data)
	}
	if reserve > b.size {
		Logger().Debug("gfx: buffer grow", "buffer", b.label, "from", b.size, "to", reserve)
		b.dev.BufferData(b.id, data, reserve)
		b.size = reserve
		return true
	}
	b.dev.BufferSubData(b.id, 0, data)
	return true
}

// release destroys the GPU storage. The buffer may be reused afterwards.
func (b *gpuBuffer) release() {
	if b.id != gpucore.InvalidID {
		b.dev.DestroyBuffer(b.id)
	}
	b.id = gpucore.InvalidID
	b.size = 0
	b.failed = false
}
