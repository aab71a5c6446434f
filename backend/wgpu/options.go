package wgpu

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// DefaultUniformSlots is the number of uniform blocks a frame can use
// before the ring wraps and forces a flush.
const DefaultUniformSlots = 1024

// uniformStride is the ring slot size. It matches the minimum dynamic
// offset alignment of every supported backend.
const uniformStride = 256

// Option configures a Device.
type Option func(*options)

type options struct {
	format       gputypes.TextureFormat
	clear        gputypes.Color
	uniformSlots int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		format:       gputypes.TextureFormatBGRA8Unorm,
		clear:        gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		uniformSlots: DefaultUniformSlots,
	}
}

// WithFormat sets the color target format of the frame views.
// Undefined formats are ignored.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		if f != gputypes.TextureFormatUndefined {
			o.format = f
		}
	}
}

// WithClearColor sets the color each frame is cleared to.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithUniformSlots sets the uniform ring size. Non-positive values are
// ignored.
func WithUniformSlots(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.uniformSlots = n
		}
	}
}

// WithLogger sets the device logger. Without it the device is silent.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
