package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration.
// Search order: customPath -> ~/.blockstage/config.yaml -> ./configs/blockstage.yaml -> embedded default
//
// Files only need the keys they change; everything else keeps its default.
// The result is normalized before it is returned.
func Load(customPath string) (Config, error) {
	cfg, err := load(customPath)
	if err != nil {
		return cfg, err
	}
	cfg.Normalize()
	return cfg, nil
}

func load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "blockstage.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockstage", filename)
}

// Normalize replaces out-of-range values with usable ones and applies the
// pace preset, if any.
func (c *Config) Normalize() {
	def := Default()

	if c.Stage.Width <= 0 {
		c.Stage.Width = def.Stage.Width
	}
	if c.Stage.Height <= 0 {
		c.Stage.Height = def.Stage.Height
	}
	if c.Runtime.TickRate <= 0 {
		c.Runtime.TickRate = def.Runtime.TickRate
	}
	if c.Runtime.MaxDispatchPerTick <= 0 {
		c.Runtime.MaxDispatchPerTick = def.Runtime.MaxDispatchPerTick
	}
	if c.Runtime.Pace != "" {
		ApplyPacePreset(c, PacePreset(c.Runtime.Pace))
	}
	if c.Runtime.Speed <= 0 {
		c.Runtime.Speed = def.Runtime.Speed
	}
	c.Runtime.Speed = clampF(c.Runtime.Speed, MinSpeed, MaxSpeed)

	if c.Timing.MoveMsPerStep < 0 {
		c.Timing.MoveMsPerStep = 0
	}
	if c.Timing.TurnMsPerDegree < 0 {
		c.Timing.TurnMsPerDegree = 0
	}
	if c.Timing.GotoMsPerPixel < 0 {
		c.Timing.GotoMsPerPixel = 0
	}
	if c.Timing.SizeChangeMs < 0 {
		c.Timing.SizeChangeMs = 0
	}
	if c.Trail.RenderPoints < 0 {
		c.Trail.RenderPoints = 0
	}
}
