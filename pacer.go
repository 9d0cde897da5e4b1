package avepace

import (
	"fmt"
	"math"
)

// largest frame count a single step can report. anything beyond this is
// a clock bug on the host side, not a stall we could ever catch up with
const maxStepFrames = math.MaxInt32

// PaceKind tells whether a pacing step asks to keep the current frame or to
// advance to a new one.
type PaceKind uint8

const (
	// Not enough time has elapsed for the next frame: keep showing the
	// last one (if any).
	PaceWait PaceKind = iota
	// One or more frames are due. Only the last of them should be shown.
	PaceAdvance
)

func (k PaceKind) String() string {
	switch k {
	case PaceWait:
		return "Wait"
	case PaceAdvance:
		return "Advance"
	default:
		return "Unknown"
	}
}

// Pace is the result of a [FramePacer.Step]. Frames is always 0 for
// [PaceWait] and at least 1 for [PaceAdvance].
type Pace struct {
	Kind   PaceKind
	Frames int
}

// FramePacer converts externally measured elapsed time into video frame
// advances. It has no notion of decoding or I/O; it only keeps the
// fractional time that hasn't been consumed by whole frames yet.
//
// The zero value is unconfigured and never advances.
type FramePacer struct {
	framePeriod float64 // seconds per frame
	elapsed     float64 // always in [0, framePeriod) after a step
}

// Configure sets the frame rate and resets the accumulated time.
// Returns [ErrInvalidRate] if fps is not a finite positive number.
func (p *FramePacer) Configure(fps float64) error {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return fmt.Errorf("%w: %v fps", ErrInvalidRate, fps)
	}
	period := 1.0 / fps
	if period <= 0 || math.IsInf(period, 0) {
		return fmt.Errorf("%w: %v fps", ErrInvalidRate, fps)
	}
	p.framePeriod = period
	p.elapsed = 0
	return nil
}

// Accumulate adds dt seconds and returns how many frames must be advanced.
// It's a shorthand for Step(dt, paused).Frames.
func (p *FramePacer) Accumulate(dt float64, paused bool) int {
	return p.Step(dt, paused).Frames
}

// Step adds dt seconds to the accumulated time, unless paused, and reports
// whether the caller should wait or advance. Leftover time is carried over
// to the next step so playback doesn't drift.
//
// Negative or non-finite deltas are ignored. Very large deltas are allowed
// and may report many frames; capping them is up to the caller.
func (p *FramePacer) Step(dt float64, paused bool) Pace {
	if paused || p.framePeriod == 0 {
		return Pace{Kind: PaceWait}
	}
	if dt > 0 && !math.IsInf(dt, 0) {
		p.elapsed += dt
	}
	if p.elapsed < p.framePeriod {
		return Pace{Kind: PaceWait}
	}

	// the leftover is derived from the frame count so both agree, even
	// when the division rounds across an integer
	frames := math.Floor(p.elapsed / p.framePeriod)
	left := p.elapsed - frames*p.framePeriod
	if left < 0 {
		frames -= 1
		left += p.framePeriod
	} else if left >= p.framePeriod {
		frames += 1
		left -= p.framePeriod
	}
	if frames < 1 {
		// elapsed >= period, so at least one frame is due
		frames = 1
		left = max(p.elapsed-p.framePeriod, 0)
	}
	if frames > maxStepFrames {
		frames = maxStepFrames
		left = 0
	}
	p.elapsed = min(max(left, 0), math.Nextafter(p.framePeriod, 0))
	return Pace{Kind: PaceAdvance, Frames: int(frames)}
}

// Reset drops any accumulated time without advancing.
func (p *FramePacer) Reset() { p.elapsed = 0 }

// Returns the configured seconds per frame, or 0 if unconfigured.
func (p *FramePacer) FramePeriod() float64 { return p.framePeriod }

// Returns the accumulated time not yet consumed by whole frames.
func (p *FramePacer) Elapsed() float64 { return p.elapsed }

// Returns whether [FramePacer.Configure] has succeeded at least once.
func (p *FramePacer) Configured() bool { return p.framePeriod > 0 }
