package gfx

import "log/slog"

// Default capacities, in vertices.
const (
	DefaultStreamCapacity = 1024
	DefaultQuadCapacity   = 4096
	DefaultBloomCapacity  = 1024
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := gfx.NewRenderer(dev,
//	    gfx.WithShaders(gfx.ShaderSet{Basic: basic, Bloom: bloom}),
//	    gfx.WithQuadCapacity(16384),
//	)
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	shaders        ShaderSet
	streamCapacity int
	quadCapacity   int
	bloomCapacity  int
	logger         *slog.Logger
}

func defaultOptions() rendererOptions {
	return rendererOptions{
		streamCapacity: DefaultStreamCapacity,
		quadCapacity:   DefaultQuadCapacity,
		bloomCapacity:  DefaultBloomCapacity,
	}
}

// WithShaders sets the shader handles supplied by the shader manager.
// Missing entries make the draws that need them no-ops.
func WithShaders(s ShaderSet) Option {
	return func(o *rendererOptions) {
		o.shaders = s
	}
}

// WithStreamCapacity sets the initial immediate-mode stream capacity in
// vertices. Non-positive values keep the default.
func WithStreamCapacity(n int) Option {
	return func(o *rendererOptions) {
		if n > 0 {
			o.streamCapacity = n
		}
	}
}

// WithQuadCapacity sets the default vertex capacity of QuadBuffers created
// with a non-positive capacity.
func WithQuadCapacity(n int) Option {
	return func(o *rendererOptions) {
		if n > 0 {
			o.quadCapacity = n
		}
	}
}

// WithBloomCapacity sets the default vertex capacity of BloomBuffers created
// with a non-positive capacity.
func WithBloomCapacity(n int) Option {
	return func(o *rendererOptions) {
		if n > 0 {
			o.bloomCapacity = n
		}
	}
}

// WithLogger calls SetLogger(l) when the Renderer is created. The logger is
// process-wide: it replaces the logger of every other Renderer and attached
// device too.
func WithLogger(l *slog.Logger) Option {
	return func(o *rendererOptions) {
		o.logger = l
	}
}
