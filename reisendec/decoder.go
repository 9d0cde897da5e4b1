// Package reisendec implements the avepace decoding contracts on top of
// [reisen], a cgo wrapper around libav (ffmpeg).
//
// [reisen]: https://github.com/erparts/reisen
package reisendec

import (
	"errors"
	"image"
	"log"
	"path/filepath"

	"github.com/erparts/go-avepace"
	"github.com/erparts/reisen"
)

var _ avepace.Decoder = (*Decoder)(nil)
var _ avepace.DecodeHandle = (*Handle)(nil)
var _ avepace.RawFrame = (*VideoFrame)(nil)

var pkgLogger avepace.Logger = log.Default()

// SetLogger sets the logger used by the package for non-fatal warnings.
func SetLogger(logger avepace.Logger) {
	pkgLogger = logger
}

// Decoder opens video files with reisen. The zero value is ready to use.
type Decoder struct{}

// New returns a reisen backed [avepace.Decoder].
func New() *Decoder { return &Decoder{} }

// Open opens the given file and prepares its first video stream for
// sequential reads. Other streams in the container are skipped.
func (d *Decoder) Open(path string) (avepace.DecodeHandle, error) {
	media, err := reisen.NewMedia(path)
	if err != nil {
		return nil, err
	}

	videoStreams := media.VideoStreams()
	if len(videoStreams) == 0 {
		media.Close()
		return nil, avepace.ErrNoVideo
	}
	if len(videoStreams) > 1 {
		pkgLogger.Printf("WARNING: '%s' has multiple video streams; defaulting to the first", filepath.Base(path))
	}
	stream := videoStreams[0]

	err = media.OpenDecode()
	if err != nil {
		media.Close()
		return nil, err
	}
	err = stream.Open()
	if err != nil {
		_ = media.CloseDecode()
		media.Close()
		return nil, err
	}

	frNum, frDenom := stream.FrameRate()
	var fps float64
	if frDenom != 0 {
		fps = float64(frNum) / float64(frDenom)
	}

	return &Handle{
		media:  media,
		stream: stream,
		fps:    fps,
		bounds: image.Rect(0, 0, stream.Width(), stream.Height()),
	}, nil
}

// Handle is an opened video stream. It must be released once done.
type Handle struct {
	media    *reisen.Media
	stream   *reisen.VideoStream
	fps      float64
	bounds   image.Rectangle
	released bool
}

// Returns the stream frame rate. It can be 0 for broken or variable rate
// streams without an average rate; the controller rejects those.
func (h *Handle) FrameRate() float64 { return h.fps }

// Returns the video resolution.
func (h *Handle) Bounds() image.Rectangle { return h.bounds }

// ReadNext decodes packets until the next frame of the video stream is
// available. Returns [avepace.ErrEndOfStream] when no packets are left.
func (h *Handle) ReadNext() (avepace.RawFrame, error) {
	if h.released {
		return nil, avepace.ErrEndOfStream
	}

	// read packets until we come across the next video frame packet
	for {
		packet, packetFound, err := h.media.ReadPacket()
		if err != nil {
			return nil, err
		}
		if !packetFound {
			return nil, avepace.ErrEndOfStream
		}

		if packet.Type() != reisen.StreamVideo || packet.StreamIndex() != h.stream.Index() {
			continue
		}
		frame, frameFound, err := h.stream.ReadVideoFrame()
		if err != nil {
			return nil, err
		}
		_ = frameFound // frameFound can be true while frame is nil: that's a frame skip
		if frame != nil {
			return &VideoFrame{frame: frame, bounds: h.bounds}, nil
		}
	}
}

// Release closes the stream, the decoding context and the media. Calling
// it more than once is a no-op. All close errors are reported together.
func (h *Handle) Release() error {
	if h.released {
		return nil
	}
	h.released = true

	streamErr := h.stream.Close()
	decodeErr := h.media.CloseDecode()
	h.media.Close()
	return errors.Join(streamErr, decodeErr)
}

// VideoFrame is a decoded RGBA frame.
type VideoFrame struct {
	frame  *reisen.VideoFrame
	bounds image.Rectangle
}

// Returns the RGBA pixels of the frame.
func (f *VideoFrame) Data() []byte { return f.frame.Data() }

// Returns the frame dimensions.
func (f *VideoFrame) Bounds() image.Rectangle { return f.bounds }

// Returns the reisen frame, for access to timing information.
func (f *VideoFrame) Frame() *reisen.VideoFrame { return f.frame }
