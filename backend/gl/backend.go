package gl

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/backend"
	"github.com/gourcego/gfx/gpucore"
)

// Backend adapts Device and the embedded programs to backend.Backend.
// Init must run on the thread that owns a current GL context.
type Backend struct {
	dev                *Device
	basic, text, bloom *Program
	inFrame            bool
}

// Compile-time interface check.
var _ backend.Backend = (*Backend)(nil)

func init() {
	backend.Register(backend.NameGL, func() backend.Backend {
		return &Backend{}
	})
}

// Name returns backend.NameGL.
func (b *Backend) Name() string { return backend.NameGL }

// Init loads GL and links the basic, text and bloom programs.
func (b *Backend) Init() error {
	dev, err := New()
	if err != nil {
		return err
	}
	progs := []struct {
		dst  **Program
		name string
		link func() (*Program, error)
	}{
		{&b.basic, "basic", BasicProgram},
		{&b.text, "text", TextProgram},
		{&b.bloom, "bloom", BloomProgram},
	}
	for _, p := range progs {
		prog, err := p.link()
		if err != nil {
			b.deletePrograms()
			dev.Destroy()
			return fmt.Errorf("gl: %s program: %w", p.name, err)
		}
		*p.dst = prog
	}
	b.dev = dev
	dev.logger.Info("gl: backend ready", "version", dev.Version())
	return nil
}

// Close deletes the programs and the device.
func (b *Backend) Close() {
	b.deletePrograms()
	if b.dev != nil {
		b.dev.Destroy()
		b.dev = nil
	}
	b.inFrame = false
}

func (b *Backend) deletePrograms() {
	for _, p := range []**Program{&b.basic, &b.text, &b.bloom} {
		if *p != nil {
			(*p).Delete()
			*p = nil
		}
	}
}

// Device returns the GL device, or nil before Init.
func (b *Backend) Device() gpucore.Device {
	if b.dev == nil {
		return nil
	}
	return b.dev
}

// GL returns the concrete device.
func (b *Backend) GL() *Device { return b.dev }

// Shaders returns the linked programs. The basic program also serves for
// shadows.
func (b *Backend) Shaders() gfx.ShaderSet {
	if b.dev == nil {
		return gfx.ShaderSet{}
	}
	return gfx.ShaderSet{Basic: b.basic, Text: b.text, Bloom: b.bloom, Shadow: b.basic}
}

// CreateTexture uploads img.
func (b *Backend) CreateTexture(img image.Image) (gpucore.TextureID, error) {
	if b.dev == nil {
		return 0, backend.ErrNotInitialized
	}
	return b.dev.CreateTexture(img)
}

// BeginFrame sets the viewport and clears to clear.
func (b *Backend) BeginFrame(width, height int, clear mgl32.Vec4) error {
	if b.dev == nil {
		return backend.ErrNotInitialized
	}
	b.dev.BeginFrame(width, height, clear[0], clear[1], clear[2], clear[3])
	b.inFrame = true
	return nil
}

// EndFrame ends the frame. Presenting is left to the window system.
func (b *Backend) EndFrame() error {
	if !b.inFrame {
		return backend.ErrNoFrame
	}
	b.inFrame = false
	if code := b.dev.Error(); code != 0 {
		return errors.Join(ErrFrame, fmt.Errorf("glGetError = %#x", code))
	}
	return nil
}
