package engine

import "time"

// Activity is the in-flight part of a time-extended block. The engine
// advances it once per tick until it settles. Dropping an activity is how
// a block is cancelled: nothing it would have applied is applied.
type Activity interface {
	// Advance moves the activity forward by dt and reports whether it
	// has settled. The final frame is applied before returning true.
	Advance(dt time.Duration) bool
}

// Tween runs frame with progress t in (0, 1] on every advance until the
// duration has elapsed. Easing is up to frame.
type Tween struct {
	Duration time.Duration
	Frame    func(t float64)

	elapsed time.Duration
}

func (tw *Tween) Advance(dt time.Duration) bool {
	tw.elapsed += dt
	if tw.Duration <= 0 || tw.elapsed >= tw.Duration {
		tw.Frame(1)
		return true
	}
	tw.Frame(float64(tw.elapsed) / float64(tw.Duration))
	return false
}

// Timer settles after a fixed duration and then calls Done, if set.
type Timer struct {
	Duration time.Duration
	Done     func()

	elapsed time.Duration
}

func (tm *Timer) Advance(dt time.Duration) bool {
	tm.elapsed += dt
	if tm.elapsed < tm.Duration {
		return false
	}
	if tm.Done != nil {
		tm.Done()
	}
	return true
}
