// Package config provides YAML-based configuration loading for the stage,
// the runtime and the outer surfaces (storage, servers, logging).
package config

// Config contains all configuration for blockstage.
type Config struct {
	Stage     StageConfig     `yaml:"stage"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
	Timing    TimingConfig    `yaml:"timing"`
	Collision CollisionConfig `yaml:"collision"`
	Trail     TrailConfig     `yaml:"trail"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// StageConfig defines the stage rectangle in stage pixels.
type StageConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RuntimeConfig defines how the engines are driven.
type RuntimeConfig struct {
	TickRate           int     `yaml:"tick_rate"`             // Ticks per second
	Seed               int64   `yaml:"seed"`                  // 0 = seed from the clock
	Speed              float64 `yaml:"speed"`                 // Animation speed multiplier, 0.1..5
	Pace               string  `yaml:"pace"`                  // Optional preset overriding speed
	MaxDispatchPerTick int     `yaml:"max_dispatch_per_tick"` // Instant blocks per engine per tick
}

// TimingConfig defines animation durations in milliseconds.
type TimingConfig struct {
	MoveMsPerStep   int `yaml:"move_ms_per_step"`
	TurnMsPerDegree int `yaml:"turn_ms_per_degree"`
	GotoMsPerPixel  int `yaml:"goto_ms_per_pixel"`
	SizeChangeMs    int `yaml:"size_change_ms"`
}

// CollisionConfig toggles program swapping on collision.
type CollisionConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TrailConfig defines how much of an actor's trail is drawn.
type TrailConfig struct {
	RenderPoints int `yaml:"render_points"` // 0 hides trails
}

// StorageConfig defines where run history is kept.
type StorageConfig struct {
	Path string `yaml:"path"` // "~" is expanded
}

// ServerConfig defines the network listeners.
type ServerConfig struct {
	SSHHost    string `yaml:"ssh_host"`
	SSHPort    int    `yaml:"ssh_port"`
	HostKey    string `yaml:"host_key"`
	FeedListen string `yaml:"feed_listen"` // Websocket feed address, "" = off
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
