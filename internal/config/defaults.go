package config

import (
	_ "embed"
)

//go:embed defaults/blockstage.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
func Default() Config {
	return Config{
		Stage: StageConfig{
			Width:  480,
			Height: 360,
		},
		Runtime: RuntimeConfig{
			TickRate:           60,
			Seed:               0,
			Speed:              1.0,
			MaxDispatchPerTick: 1000,
		},
		Timing: TimingConfig{
			MoveMsPerStep:   50,
			TurnMsPerDegree: 10,
			GotoMsPerPixel:  5,
			SizeChangeMs:    500,
		},
		Collision: CollisionConfig{
			Enabled: true,
		},
		Trail: TrailConfig{
			RenderPoints: 200,
		},
		Storage: StorageConfig{
			Path: "~/.blockstage/runs.db",
		},
		Server: ServerConfig{
			SSHHost: "0.0.0.0",
			SSHPort: 23235,
			HostKey: ".ssh/blockstage_ed25519",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
