package gfx

import "github.com/go-gl/mathgl/mgl32"

// BatchState is the accumulation state of a batch buffer.
//
//	Empty --Add--> Accumulating --Update--> Staged --Draw--> Drawn
//	  ^                                                        |
//	  +------------------------- Reset ------------------------+
//
// Draw never stages implicitly; Add after Update returns the buffer to
// Accumulating until the next Update.
type BatchState uint8

// Batch states.
const (
	StateEmpty BatchState = iota
	StateAccumulating
	StateStaged
	StateDrawn
)

var batchStateNames = [...]string{
	StateEmpty:        "Empty",
	StateAccumulating: "Accumulating",
	StateStaged:       "Staged",
	StateDrawn:        "Drawn",
}

// String returns the string representation of BatchState.
func (s BatchState) String() string {
	if int(s) < len(batchStateNames) {
		return batchStateNames[s]
	}
	return "Unknown"
}

// DefaultUV is the texture rectangle (u0, v0, u1, v1) covering a whole
// texture.
var DefaultUV = mgl32.Vec4{0, 0, 1, 1}
