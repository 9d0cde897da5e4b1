package reisendec

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/erparts/reisen"
)

// ErrNoAudio is returned when a media file doesn't contain audio streams.
var ErrNoAudio = errors.New("media contains no audio")

var _ io.ReadCloser = (*AudioReader)(nil)

// AudioSampleRate returns the sample rate of the first audio stream in the
// given file. If the media has no audio, [ErrNoAudio] is returned.
func AudioSampleRate(path string) (int, error) {
	media, err := reisen.NewMedia(path)
	if err != nil {
		return 0, err
	}
	defer media.Close()

	audioStreams := media.AudioStreams()
	if len(audioStreams) == 0 {
		return 0, ErrNoAudio
	}
	return audioStreams[0].SampleRate(), nil
}

// AudioReader serves the first audio stream of a media file as 16-bit
// little endian stereo PCM, the format expected by Ebitengine audio
// players. Video packets in the container are skipped.
type AudioReader struct {
	media      *reisen.Media
	stream     *reisen.AudioStream
	sampleRate int
	leftover   []byte
	closed     bool
}

// OpenAudio opens the first audio stream of the given file for reading.
func OpenAudio(path string) (*AudioReader, error) {
	media, err := reisen.NewMedia(path)
	if err != nil {
		return nil, err
	}

	audioStreams := media.AudioStreams()
	if len(audioStreams) == 0 {
		media.Close()
		return nil, ErrNoAudio
	}
	if len(audioStreams) > 1 {
		pkgLogger.Printf("WARNING: '%s' has multiple audio streams; defaulting to the first", filepath.Base(path))
	}
	stream := audioStreams[0]

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

	return &AudioReader{
		media:      media,
		stream:     stream,
		sampleRate: stream.SampleRate(),
		leftover:   make([]byte, 0, 1024),
	}, nil
}

// Returns the sample rate of the decoded audio.
func (r *AudioReader) SampleRate() int { return r.sampleRate }

// Read implements [io.Reader]. Only whole stereo samples (4 bytes) are
// served; io.EOF is returned once the stream is exhausted.
func (r *AudioReader) Read(buffer []byte) (int, error) {
	if r.closed {
		return 0, io.EOF
	}
	buffer = buffer[:len(buffer)&^0b11]

	// if we had leftover bytes from the previous read, use that
	var servedBytes int
	if len(r.leftover) > 0 {
		copiedBytes := r.copyLeftover(buffer)
		buffer = buffer[copiedBytes:]
		servedBytes += copiedBytes
	}

	// decode audio and move it into the buffer
	for len(buffer) > 0 {
		err := r.readAudioFrame()
		if err != nil {
			return servedBytes, err
		}
		if len(r.leftover) == 0 {
			return servedBytes, io.EOF
		}

		copiedBytes := r.copyLeftover(buffer)
		buffer = buffer[copiedBytes:]
		servedBytes += copiedBytes
	}

	return servedBytes, nil
}

// Close releases the decoder resources. Calling it more than once is a no-op.
func (r *AudioReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.leftover = nil

	streamErr := r.stream.Close()
	decodeErr := r.media.CloseDecode()
	r.media.Close()
	return errors.Join(streamErr, decodeErr)
}

func (r *AudioReader) copyLeftover(buffer []byte) int {
	copiedBytes := copy(buffer, r.leftover)
	if copiedBytes >= len(r.leftover) {
		r.leftover = r.leftover[:0]
	} else {
		// TODO: a ring buffer would avoid moving the tail around on
		// every partial copy
		newLen := copy(r.leftover, r.leftover[copiedBytes:])
		r.leftover = r.leftover[:newLen]
	}
	return copiedBytes
}

// appends the next decoded audio frame to r.leftover. if nothing is
// appended and there's no error, the stream is over
func (r *AudioReader) readAudioFrame() error {
	// read packets until we come across the next audio frame packet
	for {
		packet, packetFound, err := r.media.ReadPacket()
		if err != nil {
			return err
		}
		if !packetFound {
			return nil
		}

		if packet.Type() != reisen.StreamAudio || packet.StreamIndex() != r.stream.Index() {
			continue
		}
		frame, frameFound, err := r.stream.ReadAudioFrame()
		if err != nil {
			return err
		}
		_ = frameFound // frameFound can be true while frame is nil: that's a frame skip
		if frame != nil {
			r.leftover = append(r.leftover, frame.Data()...)
			return nil
		}
	}
}
