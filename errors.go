package gfx

import "errors"

// ErrNilDevice is returned when a Renderer is created without a device.
var ErrNilDevice = errors.New("gfx: nil device")

// ErrUnknownConfigFormat is returned by LoadConfig for unrecognized file
// extensions.
var ErrUnknownConfigFormat = errors.New("gfx: unknown config format")
