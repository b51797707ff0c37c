package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blockstage/internal/engine"
	"github.com/vovakirdan/tui-blockstage/internal/platform/tui"
	"github.com/vovakirdan/tui-blockstage/internal/project"
	"github.com/vovakirdan/tui-blockstage/internal/storage"
)

var flagSaveTo string

var playCmd = &cobra.Command{
	Use:   "play [project]",
	Short: "Edit and play a stage",
	Long: `Open the stage in the terminal. Without a project the stage starts with
one sprite and an empty program.

Controls:
  1-9        - Append a block from the palette to the selected actor
  n          - Toggle nesting: palette keys add into the loop under the cursor
  Up/Down    - Move the block cursor
  K/J        - Move the block under the cursor up/down
  e/Enter    - Edit the block's inputs (name=value; name=value)
  x          - Remove block, d - duplicate block, c - clear program
  Tab        - Select next actor, a - add actor, Ctrl+D - delete actor
  P/Space    - Play all, S/Esc - stop all
  Ctrl+S     - Save the stage to the project file
  Q/Ctrl+C   - Quit

Examples:
  blockstage play
  blockstage play examples/swap.yaml
  blockstage play --save mine.yaml --pace fast`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSaveTo, "save", "", "File Ctrl+S writes to (default: the project file)")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	// The TUI owns the terminal; keep logs out of it
	logger := cfg.NewLogger(io.Discard, "blockstage")

	var file *project.File
	savePath := flagSaveTo
	name := ""
	if len(args) == 1 {
		file = loadProject(args[0])
		name = file.Name
		if savePath == "" {
			savePath = args[0]
		}
	} else if savePath != "" {
		name = projectName(savePath)
	}
	store := newStage(cfg, file)

	opts := cfg.EngineOptions(logger)
	runs := openHistory(cfg, logger)
	if runs != nil {
		opts.Recorder = runs.Recorder(name, func(storage.RunRecord) {})
	}
	rt := engine.NewRuntime(store, opts)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runErr := tui.Run(rt, tui.StageOptions{
		Project:     name,
		SavePath:    savePath,
		TickRate:    cfg.Runtime.TickRate,
		TrailPoints: cfg.Trail.RenderPoints,
	}, width, height)

	// Close store before potential exit
	if runs != nil {
		runs.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running stage: %v\n", runErr)
		os.Exit(1)
	}
}
