package backend

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/gpucore"
	"github.com/gourcego/gfx/recording"
)

// RecordingBackend runs the batching layer headless on a recording.Device.
// Each BeginFrame clears the command log, so after EndFrame Recorder().Stats()
// describes exactly one frame.
type RecordingBackend struct {
	dev     *recording.Device
	shaders gfx.ShaderSet
	frames  int
	inFrame bool
}

// init registers the recording backend on package import.
func init() {
	Register(NameRecording, func() Backend {
		return &RecordingBackend{}
	})
}

// NewRecordingBackend creates a new recording backend.
func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{}
}

// Name returns the backend identifier.
func (b *RecordingBackend) Name() string {
	return NameRecording
}

// Init creates the recording device and its shaders.
func (b *RecordingBackend) Init() error {
	b.dev = recording.NewDevice()
	b.shaders = gfx.ShaderSet{
		Basic:  recording.NewShader(b.dev, "basic"),
		Text:   recording.NewShader(b.dev, "text"),
		Bloom:  recording.NewShader(b.dev, "bloom", gpucore.UniformMVP),
		Shadow: recording.NewShader(b.dev, "shadow"),
	}
	b.frames = 0
	return nil
}

// Close releases all backend resources.
func (b *RecordingBackend) Close() {
	b.dev = nil
	b.shaders = gfx.ShaderSet{}
	b.inFrame = false
}

// Device returns the recording device, or nil before Init.
func (b *RecordingBackend) Device() gpucore.Device {
	if b.dev == nil {
		return nil
	}
	return b.dev
}

// Recorder returns the recording device for inspection.
func (b *RecordingBackend) Recorder() *recording.Device {
	return b.dev
}

// Shaders returns the recording shaders.
func (b *RecordingBackend) Shaders() gfx.ShaderSet {
	return b.shaders
}

// CreateTexture stores img on the recording device.
func (b *RecordingBackend) CreateTexture(img image.Image) (gpucore.TextureID, error) {
	if b.dev == nil {
		return 0, ErrNotInitialized
	}
	return b.dev.CreateTexture(img)
}

// BeginFrame clears the command log. The size and clear color are ignored.
func (b *RecordingBackend) BeginFrame(_, _ int, _ mgl32.Vec4) error {
	if b.dev == nil {
		return ErrNotInitialized
	}
	b.dev.Reset()
	b.inFrame = true
	return nil
}

// EndFrame counts the frame.
func (b *RecordingBackend) EndFrame() error {
	if !b.inFrame {
		return ErrNoFrame
	}
	b.inFrame = false
	b.frames++
	return nil
}

// Frames returns the number of completed frames since Init.
func (b *RecordingBackend) Frames() int {
	return b.frames
}
