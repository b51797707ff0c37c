package core

// RuntimeConfig contains configuration passed to the stage at initialization.
type RuntimeConfig struct {
	StageW   float64 // Stage width in stage pixels
	StageH   float64 // Stage height in stage pixels
	TickRate int     // Simulation ticks per second (default 60)
	Seed     int64   // RNG seed for actor placement; 0 means use current time
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		StageW:   480,
		StageH:   360,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Bounds returns the stage rectangle.
func (c RuntimeConfig) Bounds() Bounds {
	return NewBounds(c.StageW, c.StageH)
}
