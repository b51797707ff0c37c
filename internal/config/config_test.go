package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults differ from Default():\n%+v\n%+v", cfg, Default())
	}
}

func TestLoadCustomPathKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("stage:\n  width: 640\nruntime:\n  speed: 9\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Stage.Width != 640 {
		t.Errorf("width = %v, expected 640", cfg.Stage.Width)
	}
	if cfg.Stage.Height != 360 {
		t.Errorf("height = %v, expected default 360", cfg.Stage.Height)
	}
	if cfg.Runtime.Speed != MaxSpeed {
		t.Errorf("speed = %v, expected clamp to %v", cfg.Runtime.Speed, MaxSpeed)
	}
	if !cfg.Collision.Enabled {
		t.Error("collision should stay enabled by default")
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("stage: [not, a, map"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("malformed custom config should be an error")
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		Runtime: RuntimeConfig{Speed: 0.01, TickRate: -1},
		Timing:  TimingConfig{MoveMsPerStep: -5},
		Trail:   TrailConfig{RenderPoints: -1},
	}
	cfg.Normalize()

	if cfg.Stage.Width != 480 || cfg.Stage.Height != 360 {
		t.Errorf("stage = %+v, expected defaults", cfg.Stage)
	}
	if cfg.Runtime.Speed != MinSpeed {
		t.Errorf("speed = %v, expected %v", cfg.Runtime.Speed, MinSpeed)
	}
	if cfg.Runtime.TickRate != 60 || cfg.Runtime.MaxDispatchPerTick != 1000 {
		t.Errorf("runtime = %+v", cfg.Runtime)
	}
	if cfg.Timing.MoveMsPerStep != 0 || cfg.Trail.RenderPoints != 0 {
		t.Error("negative durations and trail lengths should become 0")
	}
}

func TestPacePresets(t *testing.T) {
	tests := []struct {
		preset   PacePreset
		expected float64
		ok       bool
	}{
		{PaceSlow, 0.5, true},
		{PaceNormal, 1, true},
		{PaceFast, 2, true},
		{PaceTurbo, MaxSpeed, true},
		{"ludicrous", 1, false},
	}

	for _, tc := range tests {
		cfg := Default()
		ok := ApplyPacePreset(&cfg, tc.preset)
		if ok != tc.ok || cfg.Runtime.Speed != tc.expected {
			t.Errorf("ApplyPacePreset(%s) = %v, speed %v; expected %v, %v", tc.preset, ok, cfg.Runtime.Speed, tc.ok, tc.expected)
		}
	}

	cfg := Default()
	cfg.Runtime.Pace = "fast"
	cfg.Normalize()
	if cfg.Runtime.Speed != 2 {
		t.Errorf("pace in config should set speed, got %v", cfg.Runtime.Speed)
	}
}
