package recording

import "errors"

var (
	// ErrInjectedFailure is returned by calls that were configured to fail.
	ErrInjectedFailure = errors.New("recording: injected failure")

	// ErrEmptyImage is returned by CreateTexture for a nil or empty image.
	ErrEmptyImage = errors.New("recording: empty image")
)
