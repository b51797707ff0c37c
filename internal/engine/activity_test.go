package engine

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
)

func TestTween(t *testing.T) {
	var frames []float64
	tw := &Tween{Duration: 100 * time.Millisecond, Frame: func(t float64) { frames = append(frames, t) }}

	if tw.Advance(25 * time.Millisecond) {
		t.Fatal("settled early")
	}
	if tw.Advance(50 * time.Millisecond) {
		t.Fatal("settled early")
	}
	if !tw.Advance(50 * time.Millisecond) {
		t.Fatal("did not settle after full duration")
	}

	expected := []float64{0.25, 0.75, 1}
	for i := range expected {
		if frames[i] != expected[i] {
			t.Errorf("frame %d = %v, expected %v", i, frames[i], expected[i])
		}
	}
}

func TestTimer(t *testing.T) {
	done := 0
	tm := &Timer{Duration: time.Second, Done: func() { done++ }}

	for range 9 {
		if tm.Advance(100 * time.Millisecond) {
			t.Fatal("timer settled early")
		}
	}
	if !tm.Advance(100 * time.Millisecond) {
		t.Fatal("timer did not settle")
	}
	if done != 1 {
		t.Errorf("Done called %d times", done)
	}
}

func TestTimingScale(t *testing.T) {
	tests := []struct {
		speed    float64
		expected time.Duration
	}{
		{1, time.Second},
		{2, 500 * time.Millisecond},
		{0, time.Second},
		{100, 200 * time.Millisecond}, // Clamped to 5
	}

	for _, tc := range tests {
		tm := DefaultTiming()
		tm.Speed = tc.speed
		if got := tm.Scale(time.Second); got != tc.expected {
			t.Errorf("Scale at speed %v = %v, expected %v", tc.speed, got, tc.expected)
		}
	}
}

func TestTimingSaturates(t *testing.T) {
	tm := DefaultTiming()

	tests := []struct {
		name     string
		got      time.Duration
		expected time.Duration
	}{
		{"huge seconds", tm.Seconds(1e300), math.MaxInt64},
		{"huge negative seconds", tm.Seconds(-1e300), math.MinInt64},
		{"NaN seconds", tm.Seconds(math.NaN()), 0},
		{"plain seconds", tm.Seconds(1.5), 1500 * time.Millisecond},
		{"huge per-unit", Per(1e300, tm.MovePerStep), math.MaxInt64},
		{"per-unit uses magnitude", Per(-4, tm.MovePerStep), 200 * time.Millisecond},
	}

	for _, tc := range tests {
		if tc.got != tc.expected {
			t.Errorf("%s = %v, expected %v", tc.name, tc.got, tc.expected)
		}
	}

	slow := tm
	slow.Speed = MinSpeed
	if got := slow.Scale(math.MaxInt64); got != math.MaxInt64 {
		t.Errorf("Scale at min speed = %v, expected saturation", got)
	}
}

func TestHandlersRejectDuplicates(t *testing.T) {
	h := NewBuiltinHandlers()
	if err := h.Register("move", func(*Call) Activity { return nil }); err == nil {
		t.Error("re-registering move should fail")
	}
	if err := h.RegisterLoop("move", func(blocks.Inputs) int { return 0 }); err == nil {
		t.Error("registering a loop over an action should fail")
	}
}
