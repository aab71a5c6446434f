package backend

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("backend: no frame in progress")
)

// Backend names.
const (
	// NameRecording is the headless backend that records device calls.
	NameRecording = "recording"
	// NameGL is the OpenGL 4.1 core backend in backend/gl.
	NameGL = "gl"
)

// Backend bundles a gpucore.Device with the shader set and texture upload
// a gfx.Renderer needs, and brackets frames.
//
// Backends are registered with Register and selected with Get or Default.
// Init must be called before Device, Shaders or CreateTexture are used; a
// GPU backend may require a current graphics context at that point.
type Backend interface {
	// Name returns the backend identifier (e.g., "recording", "gl").
	Name() string

	// Init creates the device and compiles the shaders.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Device returns the device, or nil before Init.
	Device() gpucore.Device

	// Shaders returns the shaders built by Init.
	Shaders() gfx.ShaderSet

	// CreateTexture uploads img and returns its handle.
	CreateTexture(img image.Image) (gpucore.TextureID, error)

	// BeginFrame starts a frame of the given framebuffer size, cleared to
	// the given color.
	BeginFrame(width, height int, clear mgl32.Vec4) error

	// EndFrame finishes the frame started by BeginFrame.
	EndFrame() error
}
