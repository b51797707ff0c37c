package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List all block types",
	Long:  `Shows every block type in the catalog, grouped by category, with its inputs and defaults.`,
	Run:   runBlocks,
}

func runBlocks(cmd *cobra.Command, args []string) {
	cat := blocks.Builtin()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, bt := range cat.All() {
		if len(bt.ID) > maxIDLen {
			maxIDLen = len(bt.ID)
		}
	}

	for _, category := range []blocks.Category{blocks.CategoryMotion, blocks.CategoryLooks} {
		types := cat.ListByCategory(category)
		if len(types) == 0 {
			continue
		}

		fmt.Printf("%s:\n", strings.ToUpper(string(category)))
		fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Inputs")
		fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "------")
		for _, bt := range types {
			fmt.Printf("  %-*s  %s\n", maxIDLen, bt.ID, describeInputs(bt))
		}
		fmt.Println()
	}

	fmt.Println("Blocks marked [container] hold a nested body under \"children\".")
	fmt.Println("Run 'blockstage play' to build programs interactively.")
}

func describeInputs(bt blocks.BlockType) string {
	parts := make([]string, 0, len(bt.Inputs)+1)
	for _, in := range bt.Inputs {
		def := in.Default.String()
		if in.Default.Kind() == blocks.KindText {
			def = fmt.Sprintf("%q", def)
		}
		s := fmt.Sprintf("%s=%s", in.Name, def)
		if in.Unit != "" {
			s += " " + in.Unit
		}
		parts = append(parts, s)
	}
	if bt.Container {
		parts = append(parts, "[container]")
	}
	return strings.Join(parts, ", ")
}
