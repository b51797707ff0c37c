package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/engine"
)

// StageRuntime returns the settings the stage store is created with.
func (c Config) StageRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		StageW:   c.Stage.Width,
		StageH:   c.Stage.Height,
		TickRate: c.Runtime.TickRate,
		Seed:     c.Runtime.Seed,
	}
}

// EngineTiming converts the millisecond settings to engine durations.
func (c Config) EngineTiming() engine.Timing {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return engine.Timing{
		MovePerStep:   ms(c.Timing.MoveMsPerStep),
		TurnPerDegree: ms(c.Timing.TurnMsPerDegree),
		GotoPerPixel:  ms(c.Timing.GotoMsPerPixel),
		SizeChange:    ms(c.Timing.SizeChangeMs),
		Speed:         c.Runtime.Speed,
	}
}

// EngineOptions returns runtime options for this config. The recorder is
// left for the caller to set.
func (c Config) EngineOptions(logger *log.Logger) engine.Options {
	return engine.Options{
		Timing:             c.EngineTiming(),
		TickRate:           c.Runtime.TickRate,
		MaxDispatchPerTick: c.Runtime.MaxDispatchPerTick,
		DisableCollisions:  !c.Collision.Enabled,
		Logger:             logger,
	}
}

// NewLogger creates a logger at the configured level writing to w.
// Unknown levels fall back to info.
func (c Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
