package avepace

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestPacerConfigure(t *testing.T) {
	var p FramePacer
	if p.Configured() {
		t.Fatal("zero value pacer should not be configured")
	}

	if err := p.Configure(25); err != nil {
		t.Fatalf("Configure(25) failed: %v", err)
	}
	if !approxEqual(p.FramePeriod(), 0.04) {
		t.Errorf("expected frame period 0.04, got %v", p.FramePeriod())
	}

	invalid := []float64{0, -30, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, fps := range invalid {
		err := p.Configure(fps)
		if !errors.Is(err, ErrInvalidRate) {
			t.Errorf("Configure(%v): expected ErrInvalidRate, got %v", fps, err)
		}
	}
	if !approxEqual(p.FramePeriod(), 0.04) {
		t.Errorf("failed Configure calls should keep the previous period, got %v", p.FramePeriod())
	}
}

func TestPacerConfigureResetsElapsed(t *testing.T) {
	var p FramePacer
	_ = p.Configure(10)
	p.Accumulate(0.05, false)
	if !approxEqual(p.Elapsed(), 0.05) {
		t.Fatalf("expected 0.05 elapsed, got %v", p.Elapsed())
	}
	_ = p.Configure(10)
	if p.Elapsed() != 0 {
		t.Errorf("Configure should reset elapsed time, got %v", p.Elapsed())
	}
}

func TestPacerUnconfiguredNeverAdvances(t *testing.T) {
	var p FramePacer
	if n := p.Accumulate(100, false); n != 0 {
		t.Errorf("unconfigured pacer advanced %d frames", n)
	}
}

func TestPacerWaitsUntilPeriodReached(t *testing.T) {
	var p FramePacer
	_ = p.Configure(30)
	period := 1.0 / 30.0

	var sum float64
	for i := 0; i < 6; i++ {
		pace := p.Step(0.005, false)
		sum += 0.005
		if pace.Kind != PaceWait || pace.Frames != 0 {
			t.Fatalf("step %d: expected wait, got %+v", i, pace)
		}
		if !approxEqual(p.Elapsed(), sum) {
			t.Fatalf("step %d: expected elapsed %v, got %v", i, sum, p.Elapsed())
		}
	}

	pace := p.Step(0.005, false)
	sum += 0.005
	if pace.Kind != PaceAdvance || pace.Frames != 1 {
		t.Fatalf("expected a single frame advance, got %+v", pace)
	}
	if !approxEqual(p.Elapsed(), math.Mod(sum, period)) {
		t.Errorf("expected leftover %v, got %v", math.Mod(sum, period), p.Elapsed())
	}
}

func TestPacerScenario30FPS(t *testing.T) {
	var p FramePacer
	_ = p.Configure(30)

	if n := p.Accumulate(0.02, false); n != 0 {
		t.Fatalf("first tick: expected 0 frames, got %d", n)
	}
	if n := p.Accumulate(0.02, false); n != 1 {
		t.Fatalf("second tick: expected 1 frame, got %d", n)
	}
	if !approxEqual(p.Elapsed(), 0.04-1.0/30.0) {
		t.Fatalf("expected leftover ~0.00667, got %v", p.Elapsed())
	}

	before := p.Elapsed()
	if n := p.Accumulate(0, true); n != 0 {
		t.Fatalf("paused tick: expected 0 frames, got %d", n)
	}
	if p.Elapsed() != before {
		t.Errorf("paused tick changed elapsed time: %v -> %v", before, p.Elapsed())
	}
}

func TestPacerPausedIgnoresTime(t *testing.T) {
	var p FramePacer
	_ = p.Configure(60)
	p.Accumulate(0.01, false)
	before := p.Elapsed()
	for i := 0; i < 10; i++ {
		if pace := p.Step(5, true); pace.Kind != PaceWait {
			t.Fatalf("paused step advanced: %+v", pace)
		}
	}
	if p.Elapsed() != before {
		t.Errorf("paused steps changed elapsed time: %v -> %v", before, p.Elapsed())
	}
}

func TestPacerIgnoresInvalidDeltas(t *testing.T) {
	var p FramePacer
	_ = p.Configure(10)
	p.Accumulate(0.03, false)

	for _, dt := range []float64{-1, -0.001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if n := p.Accumulate(dt, false); n != 0 {
			t.Errorf("Accumulate(%v) advanced %d frames", dt, n)
		}
		if !approxEqual(p.Elapsed(), 0.03) {
			t.Errorf("Accumulate(%v) changed elapsed time to %v", dt, p.Elapsed())
		}
	}
}

func TestPacerCatchUp(t *testing.T) {
	var p FramePacer
	_ = p.Configure(10)

	pace := p.Step(0.55, false)
	if pace.Kind != PaceAdvance || pace.Frames != 5 {
		t.Fatalf("expected 5 frame advance, got %+v", pace)
	}
	if !approxEqual(p.Elapsed(), 0.05) {
		t.Errorf("expected leftover 0.05, got %v", p.Elapsed())
	}
}

func TestPacerLargeStall(t *testing.T) {
	var p FramePacer
	_ = p.Configure(30)

	n := p.Accumulate(3600, false)
	if n < 107999 || n > 108000 {
		t.Errorf("expected ~108000 frames after an hour, got %d", n)
	}
	if p.Elapsed() < 0 || p.Elapsed() >= p.FramePeriod() {
		t.Errorf("leftover %v outside [0, %v)", p.Elapsed(), p.FramePeriod())
	}

	n = p.Accumulate(math.MaxFloat64, false)
	if n != maxStepFrames {
		t.Errorf("expected overflowing steps to clamp to %d, got %d", maxStepFrames, n)
	}
}

func TestPacerElapsedStaysBelowPeriod(t *testing.T) {
	var p FramePacer
	_ = p.Configure(29.97)
	deltas := []float64{0.016, 0.017, 0.033, 0.1, 0.0001, 0.25, 0.016, 1.5, 0.033366}
	for i := 0; i < 200; i++ {
		p.Accumulate(deltas[i%len(deltas)], false)
		if p.Elapsed() < 0 || p.Elapsed() >= p.FramePeriod() {
			t.Fatalf("step %d: leftover %v outside [0, %v)", i, p.Elapsed(), p.FramePeriod())
		}
	}
}

func TestPacerNoDrift(t *testing.T) {
	var p FramePacer
	_ = p.Configure(24)

	// 10 seconds at an uneven 144Hz-ish refresh
	total := 0
	for i := 0; i < 1440; i++ {
		total += p.Accumulate(1.0/144.0, false)
	}
	if total < 239 || total > 240 {
		t.Errorf("expected 240 frames (+-1 for rounding) in 10s at 24fps, got %d", total)
	}
}

func TestPacerExactPeriodBoundaries(t *testing.T) {
	for _, fps := range []float64{24, 25, 29.97, 30, 60} {
		for k := 1; k <= 300; k++ {
			var p FramePacer
			_ = p.Configure(fps)

			// k whole periods, then a negligible delta: k frames in total,
			// however the division happens to round
			total := p.Accumulate(float64(k)/fps, false)
			if p.Elapsed() < 0 || p.Elapsed() >= p.FramePeriod() {
				t.Fatalf("%v fps, k=%d: leftover %v outside [0, %v)", fps, k, p.Elapsed(), p.FramePeriod())
			}
			total += p.Accumulate(1e-12, false)
			if total != k {
				t.Fatalf("%v fps, k=%d: expected %d frames, got %d", fps, k, k, total)
			}
		}
	}
}

func TestPaceKindString(t *testing.T) {
	if PaceWait.String() != "Wait" || PaceAdvance.String() != "Advance" {
		t.Errorf("unexpected strings: %s, %s", PaceWait, PaceAdvance)
	}
	if PaceKind(99).String() != "Unknown" {
		t.Errorf("expected Unknown for invalid kind")
	}
}
