package avepace

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Outcome describes what a [Controller.Tick]() did.
type Outcome uint8

const (
	// Nothing is playing. The decoder wasn't touched.
	OutcomeStopped Outcome = iota
	// Playing, but the first frame isn't due yet. No frame is returned.
	OutcomePending
	// The next frame isn't due yet (or playback is paused). The previous
	// frame is returned again.
	OutcomeRepeat
	// One or more frames were read and the newest one is returned.
	OutcomeAdvanced
	// The stream ended during this tick. The session has been stopped.
	OutcomeEnded
	// Decoding failed during this tick. The session has been stopped and
	// the error is returned alongside.
	OutcomeFailed
)

// Returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeStopped:
		return "Stopped"
	case OutcomePending:
		return "Pending"
	case OutcomeRepeat:
		return "Repeat"
	case OutcomeAdvanced:
		return "Advanced"
	case OutcomeEnded:
		return "Ended"
	case OutcomeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Returns whether the outcome comes with a frame to display.
func (o Outcome) HasFrame() bool {
	return o == OutcomeRepeat || o == OutcomeAdvanced
}

// one Play() call worth of state. owns the decode handle exclusively
type session[F any] struct {
	id        uuid.UUID
	handle    DecodeHandle
	hasAudio  bool
	lastFrame F
	hasFrame  bool
}

// A Controller plays a video (and optionally an audio track) in step with
// the elapsed time reported by the host's render loop.
//
// Usage:
//   - Create a [NewController]() with a [Decoder], a [FrameConverter] and
//     optionally an [AudioEngine].
//   - Call [Controller.Play]() to start a video.
//   - Call [Controller.Tick]() once per rendered frame with the elapsed time
//     since the previous call, and draw whatever frame it returns.
//   - Use [Controller.Pause](), [Controller.Unpause]() and [Controller.Stop]()
//     to control playback.
//
// When the host falls behind, Tick reads as many frames as needed to catch
// up and only converts the newest one. Intermediate frames are decoded and
// dropped, never shown.
//
// A Controller is not safe for concurrent use.
type Controller[F any] struct {
	decoder   Decoder
	converter FrameConverter[F]
	audio     AudioEngine // may be nil
	config    Config

	pacer   FramePacer
	state   PlaybackState
	session *session[F] // nil while stopped
	volume  float64

	catchUpWarning *throttledWarning
}

// NewController creates a stopped controller. The audio engine can be nil,
// in which case every video plays without sound.
func NewController[F any](decoder Decoder, converter FrameConverter[F], audio AudioEngine, config Config) *Controller[F] {
	if decoder == nil || converter == nil {
		panic("nil decoder or frame converter")
	}
	return &Controller[F]{
		decoder:        decoder,
		converter:      converter,
		audio:          audio,
		config:         config,
		state:          Stopped,
		volume:         ClampPercent(config.Volume),
		catchUpWarning: newThrottledWarning(time.Second),
	}
}

// --- playback states ---

// Play starts playing the given video from the beginning. If audioPath is
// not empty, the audio engine loads it and starts it from position 0 too.
//
// Anything that was playing before is stopped first. If the video can't be
// opened, [ErrSourceOpen] is returned; if its frame rate is unusable,
// [ErrInvalidRate] is returned. In both cases the controller is left
// [Stopped].
func (c *Controller[F]) Play(videoPath, audioPath string) error {
	c.endSession()

	handle, err := c.decoder.Open(videoPath)
	if err != nil {
		return fmt.Errorf("%w '%s': %w", ErrSourceOpen, videoPath, err)
	}

	fps := handle.FrameRate()
	if err := c.pacer.Configure(fps); err != nil {
		c.release(handle, "")
		return fmt.Errorf("'%s': %w", videoPath, err)
	}

	sess := &session[F]{id: uuid.New(), handle: handle}
	if audioPath != "" {
		if c.audio == nil {
			pkgLogger.Printf("WARNING: no audio engine configured, playing '%s' without audio", videoPath)
		} else {
			c.audio.SetVolume(c.volume)
			if err := c.audio.LoadAndPlay(audioPath); err != nil {
				c.release(handle, sess.id.String())
				return fmt.Errorf("audio '%s': %w", audioPath, err)
			}
			sess.hasAudio = true
		}
	}

	c.session = sess
	c.state = Playing
	return nil
}

// Pause freezes the playback clock and pauses the audio. If the controller
// isn't playing, it does nothing.
func (c *Controller[F]) Pause() {
	if c.state != Playing {
		return
	}
	if c.session.hasAudio {
		c.audio.Pause()
	}
	c.state = Paused
}

// Unpause resumes a paused playback. If the controller isn't paused, it
// does nothing.
func (c *Controller[F]) Unpause() {
	if c.state != Paused {
		return
	}
	if c.session.hasAudio {
		c.audio.Unpause()
	}
	c.state = Playing
}

// Stop ends the current playback and frees the decoder resources. It's safe
// to call at any time, including when nothing is playing.
func (c *Controller[F]) Stop() {
	c.endSession()
}

// Returns the current state: [Stopped], [Playing] or [Paused]. Playback
// stops by itself when the video ends, which is only noticed by
// [Controller.Tick]().
func (c *Controller[F]) State() PlaybackState { return c.state }

// --- frames ---

// Tick advances the playback clock by dt seconds and returns the frame to
// display, if any. See [Outcome] for the possible results. The returned
// frame is the zero value of F unless the outcome [Outcome.HasFrame]().
//
// Tick blocks while reading the frames it needs to catch up. Errors are
// only returned for decoding failures; the end of the video is reported as
// [OutcomeEnded] and leaves the controller [Stopped].
func (c *Controller[F]) Tick(dt float64) (F, Outcome, error) {
	var none F
	if c.state == Stopped {
		return none, OutcomeStopped, nil
	}

	sess := c.session
	pace := c.pacer.Step(dt, c.state == Paused)
	if pace.Kind == PaceWait {
		if sess.hasFrame {
			return sess.lastFrame, OutcomeRepeat, nil
		}
		return none, OutcomePending, nil
	}

	reads := pace.Frames
	if limit := c.config.MaxCatchUpFrames; limit > 0 && reads > limit {
		c.catchUpWarning.Printf("session %s is %d frames behind, skipping only %d", sess.id, reads, limit)
		reads = limit
	}

	// every frame must be read to keep the demuxer position right, but
	// only the newest one is converted and shown
	var raw RawFrame
	for i := 0; i < reads; i++ {
		frame, err := sess.handle.ReadNext()
		if err != nil {
			c.endSession()
			if isEndOfStream(err) {
				return none, OutcomeEnded, nil
			}
			return none, OutcomeFailed, fmt.Errorf("session %s: %w", sess.id, err)
		}
		raw = frame
	}

	sess.lastFrame = c.converter.Convert(raw)
	sess.hasFrame = true
	return sess.lastFrame, OutcomeAdvanced, nil
}

// Returns the most recently displayed frame of the current session. The
// boolean is false while stopped or before the first frame was due.
func (c *Controller[F]) LastFrame() (F, bool) {
	if c.session == nil || !c.session.hasFrame {
		var none F
		return none, false
	}
	return c.session.lastFrame, true
}

// --- audio ---

// SetVolume sets the audio volume as a percentage in [0, 100]. Values out
// of range are clamped. If there's no audio engine, only the value is kept.
func (c *Controller[F]) SetVolume(percent float64) {
	c.volume = ClampPercent(percent)
	if c.audio != nil {
		c.audio.SetVolume(c.volume)
	}
}

// Returns the current volume percentage.
func (c *Controller[F]) Volume() float64 { return c.volume }

// --- misc ---

// Returns the identifier of the current playback session, or an empty
// string while stopped. Useful to correlate log lines.
func (c *Controller[F]) SessionID() string {
	if c.session == nil {
		return ""
	}
	return c.session.id.String()
}

// Returns the seconds per frame of the current (or last) video.
func (c *Controller[F]) FramePeriod() float64 { return c.pacer.FramePeriod() }

// --- internal ---

// releases everything owned by the current session, if any. after
// this the controller is stopped and the handle is gone, so a second
// call can't release it twice
func (c *Controller[F]) endSession() {
	sess := c.session
	c.session = nil
	c.state = Stopped
	c.pacer.Reset()
	if sess == nil {
		return
	}

	if sess.hasAudio {
		if err := c.audio.Stop(); err != nil {
			pkgLogger.Printf("WARNING: session %s: failed to stop audio: %s", sess.id, err)
		}
	}
	c.release(sess.handle, sess.id.String())
}

func (c *Controller[F]) release(handle DecodeHandle, sessionID string) {
	if err := handle.Release(); err != nil {
		if sessionID == "" {
			pkgLogger.Printf("WARNING: failed to release decoder: %s", err)
		} else {
			pkgLogger.Printf("WARNING: session %s: failed to release decoder: %s", sessionID, err)
		}
	}
}

func isEndOfStream(err error) bool {
	return errors.Is(err, ErrEndOfStream) || errors.Is(err, io.EOF)
}
