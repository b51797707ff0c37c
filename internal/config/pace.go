package config

import "math"

// Speed multiplier limits.
const (
	MinSpeed = 0.1
	MaxSpeed = 5.0
)

// PacePreset represents a named animation speed.
type PacePreset string

const (
	PaceSlow   PacePreset = "slow"
	PaceNormal PacePreset = "normal"
	PaceFast   PacePreset = "fast"
	PaceTurbo  PacePreset = "turbo"
)

// Presets lists the presets in increasing speed.
var Presets = []PacePreset{PaceSlow, PaceNormal, PaceFast, PaceTurbo}

// SpeedForPreset returns the speed multiplier for a preset.
// Unknown presets return 0.
func SpeedForPreset(preset PacePreset) float64 {
	switch preset {
	case PaceSlow:
		return 0.5
	case PaceNormal:
		return 1.0
	case PaceFast:
		return 2.0
	case PaceTurbo:
		return MaxSpeed
	default:
		return 0
	}
}

// ApplyPacePreset sets the speed from a preset. Unknown presets leave the
// config unchanged and report false.
func ApplyPacePreset(cfg *Config, preset PacePreset) bool {
	speed := SpeedForPreset(preset)
	if speed == 0 {
		return false
	}
	cfg.Runtime.Speed = speed
	cfg.Runtime.Pace = string(preset)
	return true
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
