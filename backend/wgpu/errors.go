package wgpu

import "errors"

// Sentinel errors returned by the device.
var (
	// ErrNilDevice is returned when New is given a nil hal device or queue.
	ErrNilDevice = errors.New("wgpu: nil hal device or queue")

	// ErrNoHAL is returned when a device provider does not expose hal types.
	ErrNoHAL = errors.New("wgpu: provider does not expose hal device")

	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("wgpu: no frame in progress")

	// ErrFrameInProgress is returned by BeginFrame while a frame is open.
	ErrFrameInProgress = errors.New("wgpu: frame already in progress")

	// ErrShaderNotReady is returned when a shader program fails to build.
	ErrShaderNotReady = errors.New("wgpu: shader not ready")

	// ErrUnknownShader is returned by NewShader for an unknown kind.
	ErrUnknownShader = errors.New("wgpu: unknown shader kind")

	// ErrEmptyImage is returned by CreateTexture for a zero-sized image.
	ErrEmptyImage = errors.New("wgpu: empty image")
)
