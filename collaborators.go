package avepace

import "image"

// A Decoder opens video sources for sequential frame reads. See the
// reisendec package for the reisen (libav) based implementation.
type Decoder interface {
	// Opens the given source. Implementations should return errors
	// that make sense to wrap with [ErrSourceOpen].
	Open(path string) (DecodeHandle, error)
}

// A DecodeHandle is an opened video source. It's owned by a single
// playback session and released exactly once by the controller.
type DecodeHandle interface {
	// Returns the native frame rate of the video, in frames per second.
	FrameRate() float64

	// Reads the next frame in presentation order. When the stream is
	// exhausted, [ErrEndOfStream] (or [io.EOF]) must be returned.
	ReadNext() (RawFrame, error)

	// Frees the underlying resources. Must be idempotent.
	Release() error
}

// A RawFrame is a decoded video frame with RGBA pixel data.
type RawFrame interface {
	Data() []byte
	Bounds() image.Rectangle
}

// A FrameConverter transforms raw decoded frames into something the host
// can display. Conversions must produce a new value each time: the
// controller keeps the previous result around and hands it back while
// waiting for the next frame.
type FrameConverter[F any] interface {
	Convert(RawFrame) F
}

// FrameConverterFunc adapts a plain function to [FrameConverter].
type FrameConverterFunc[F any] func(RawFrame) F

func (fn FrameConverterFunc[F]) Convert(frame RawFrame) F { return fn(frame) }

// An AudioEngine plays the audio track that accompanies a video. It's
// typically a process-wide object; see the ebitenaudio package.
type AudioEngine interface {
	// Loads the given audio source and starts playing it from the
	// beginning, replacing whatever was playing before.
	LoadAndPlay(path string) error

	Stop() error
	Pause()
	Unpause()

	// Sets the volume as a percentage in [0, 100]. See [PercentToGain].
	SetVolume(percent float64)
}
