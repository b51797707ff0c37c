// blockstage runs Scratch-like block programs for sprites on a 2D stage.
//
// Usage:
//
//	blockstage blocks              - List available block types
//	blockstage run <project>       - Run a project headless until every actor is idle
//	blockstage play [project]      - Open the stage editor in the terminal
//	blockstage serve               - Start SSH server; every session gets its own stage
//	blockstage history             - Show recorded runs
//
// Global flags:
//
//	--config <path> - Config file (default: search ~/.blockstage, ./configs, embedded)
//	--fps <rate>    - Set tick rate
//	--seed <value>  - Set RNG seed for actor placement
//	--speed <x>     - Animation speed multiplier (0.1..5)
//	--db <path>     - Set run history database path
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagFPS    int
	flagSeed   int64
	flagSpeed  float64
	flagPace   string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockstage",
	Short: "Blockstage - run block programs for sprites in your terminal",
	Long: `Blockstage gives every sprite on a stage its own program of blocks
(move, turn, go to, repeat, wait, say, think, change size, set color) and
plays them all at once. Sprites that bump into each other swap programs.

Available commands:
  blocks   - Show all block types and their inputs
  run      - Run a project file headless
  play     - Edit and play a stage interactively
  serve    - Start SSH server for remote play
  history  - View recorded runs

Examples:
  blockstage blocks
  blockstage run examples/swap.yaml --listen :8080
  blockstage play examples/swap.yaml
  blockstage serve
  blockstage history --plain`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = from config, else time based)")
	rootCmd.PersistentFlags().Float64Var(&flagSpeed, "speed", 0, "Animation speed multiplier (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagPace, "pace", "", "Speed preset: slow, normal, fast, turbo")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (default from config)")

	// Add subcommands
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}
