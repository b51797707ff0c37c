package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-blockstage/internal/core"
)

// Speed multiplier limits.
const (
	MinSpeed = 0.1
	MaxSpeed = 5.0
)

// Timing holds the per-unit durations of animated blocks.
type Timing struct {
	MovePerStep   time.Duration // move: per step
	TurnPerDegree time.Duration // turn: per degree
	GotoPerPixel  time.Duration // goto: per pixel of distance
	SizeChange    time.Duration // changesize: fixed
	Speed         float64       // Multiplier; 2 plays twice as fast
}

// DefaultTiming returns the standard animation pace.
func DefaultTiming() Timing {
	return Timing{
		MovePerStep:   50 * time.Millisecond,
		TurnPerDegree: 10 * time.Millisecond,
		GotoPerPixel:  5 * time.Millisecond,
		SizeChange:    500 * time.Millisecond,
		Speed:         1,
	}
}

// Scale converts a nominal duration to wall time at the current speed.
func (t Timing) Scale(d time.Duration) time.Duration {
	speed := t.Speed
	if speed == 0 {
		speed = 1
	}
	speed = core.ClampF(speed, MinSpeed, MaxSpeed)
	return saturate(float64(d) / speed)
}

// Seconds converts user-entered seconds to wall time at the current speed.
func (t Timing) Seconds(s float64) time.Duration {
	return t.Scale(saturate(s * float64(time.Second)))
}

// Per returns n units of a per-unit duration, saturating instead of
// overflowing.
func Per(n float64, unit time.Duration) time.Duration {
	return saturate(math.Abs(n) * float64(unit))
}

// saturate converts nanoseconds to a Duration clamped to the representable
// range. NaN reads as zero.
func saturate(ns float64) time.Duration {
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return math.MaxInt64
	case ns <= math.MinInt64:
		return math.MinInt64
	}
	return time.Duration(ns)
}
