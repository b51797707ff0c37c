package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blockstage/internal/platform/tui"
	"github.com/vovakirdan/tui-blockstage/internal/storage"
)

var (
	flagPlain        bool
	flagLimit        int
	flagClearProject string
	flagShowRun      string
)

var historyCmd = &cobra.Command{
	Use:   "history [project]",
	Short: "Show recorded runs",
	Long: `Browse recorded runs in a table. Tab switches between projects.

With --plain the most recent runs are printed as text instead.

Examples:
  blockstage history
  blockstage history swap --plain
  blockstage history --show <run-id>
  blockstage history --clear swap`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print as text instead of opening the table")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Runs to print with --plain")
	historyCmd.Flags().StringVar(&flagClearProject, "clear", "", "Delete every run of a project")
	historyCmd.Flags().StringVar(&flagShowRun, "show", "", "Print the final stage of a run as YAML")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClearProject != "":
		if err := store.ClearRuns(flagClearProject); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs of %s\n", flagClearProject)

	case flagShowRun != "":
		showRun(store, flagShowRun)

	case flagPlain:
		project := ""
		if len(args) == 1 {
			project = args[0]
		}
		printRuns(store, project)

	default:
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printRuns(store *storage.Store, project string) {
	runs, err := store.RecentRuns(project, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'blockstage run <project>' to record one.")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-14s  %-9s  %6s  %5s  %5s  %7s  %s\n", "Date", "Project", "Outcome", "Actors", "Steps", "Swaps", "Time", "Run")
	fmt.Printf("  %-16s  %-14s  %-9s  %6s  %5s  %5s  %7s  %s\n", "----", "-------", "-------", "------", "-----", "-----", "----", "---")

	for _, r := range runs {
		fmt.Printf("  %-16s  %-14s  %-9s  %6d  %5d  %5d  %6.1fs  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Project, r.Outcome,
			r.Actors, r.Steps, r.Collisions, r.Duration.Seconds(), r.RunID)
	}
}

func showRun(store *storage.Store, runID string) {
	run, err := store.RunByID(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: no run %q\n", runID)
		os.Exit(1)
	}

	f, err := run.SnapshotProject()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding snapshot: %v\n", err)
		os.Exit(1)
	}
	data, err := f.YAML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
