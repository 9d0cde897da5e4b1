package avepace

import "errors"

// Errors reported by [Controller.Play]() and the collaborators. Wrapped
// errors can be matched with [errors.Is].
var (
	ErrInvalidRate = errors.New("invalid video frame rate")
	ErrSourceOpen  = errors.New("can't open video source")
	ErrNoVideo     = errors.New("file doesn't include any video stream")

	// ErrEndOfStream is not a real failure: decoders return it from
	// [DecodeHandle.ReadNext] once the stream is exhausted, and the
	// controller consumes it by stopping the session.
	ErrEndOfStream = errors.New("end of stream")
)
