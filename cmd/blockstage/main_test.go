package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/config"
	"github.com/vovakirdan/tui-blockstage/internal/engine"
	"github.com/vovakirdan/tui-blockstage/internal/project"
)

func TestProjectName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"examples/swap.yaml", "swap"},
		{"/tmp/orbit.json", "orbit"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := projectName(tt.path); got != tt.expected {
			t.Errorf("projectName(%q) = %q, expected %q", tt.path, got, tt.expected)
		}
	}
}

func TestDescribeInputs(t *testing.T) {
	cat := blocks.Builtin()

	repeat, _ := cat.Lookup(blocks.TypeRepeat)
	if got := describeInputs(repeat); got != "times=10 times, [container]" {
		t.Errorf("describeInputs(repeat) = %q", got)
	}
	say, _ := cat.Lookup(blocks.TypeSay)
	if got := describeInputs(say); got != `message="Hello!", duration=2 sec` {
		t.Errorf("describeInputs(say) = %q", got)
	}
}

func TestExampleProjectRuns(t *testing.T) {
	f, err := project.LoadFile("../../examples/swap.yaml")
	if err != nil {
		t.Fatalf("example project does not load: %v", err)
	}

	cfg := config.Default()
	cfg.Runtime.Speed = config.MaxSpeed
	cfg.Runtime.TickRate = 200
	store := newStage(cfg, f)
	rt := engine.NewRuntime(store, cfg.EngineOptions(nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := serveRun(ctx, rt, "", cfg.NewLogger(io.Discard, "test")); err != nil {
		t.Fatalf("serveRun() failed: %v", err)
	}
	if rt.Playing() {
		t.Error("runtime still playing after serveRun")
	}
}
