package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockstage/internal/config"
	"github.com/vovakirdan/tui-blockstage/internal/project"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
	"github.com/vovakirdan/tui-blockstage/internal/storage"
)

// loadConfig loads the config file and applies global flag overrides.
// Exits on error.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagFPS > 0 {
		cfg.Runtime.TickRate = flagFPS
	}
	if flagSeed != 0 {
		cfg.Runtime.Seed = flagSeed
	}
	if flagPace != "" {
		if !config.ApplyPacePreset(&cfg, config.PacePreset(flagPace)) {
			fmt.Fprintf(os.Stderr, "Error: unknown pace %q (use slow, normal, fast or turbo)\n", flagPace)
			os.Exit(1)
		}
	}
	if flagSpeed > 0 {
		cfg.Runtime.Speed = flagSpeed
		cfg.Runtime.Pace = ""
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}

	cfg.Normalize()
	return cfg
}

// loadProject reads and validates a project file. Exits on error.
func loadProject(path string) *project.File {
	f, err := project.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if f.Name == "" {
		f.Name = projectName(path)
	}
	return f
}

// projectName derives a project name from its file name.
func projectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// newStage creates a store holding the project's actors, or the default
// actor when f is nil. Exits on error.
func newStage(cfg config.Config, f *project.File) *stage.Store {
	store := stage.New(cfg.StageRuntime(), nil)
	if f == nil {
		store.Init()
		return store
	}
	if err := f.Apply(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}

// openHistory opens the run history database. Failure is reported and
// nil returned; callers carry on without recording.
func openHistory(cfg config.Config, logger *log.Logger) *storage.Store {
	runs, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open run history", "error", err)
		return nil
	}
	return runs
}
