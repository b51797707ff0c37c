package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/program"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// blockLabel renders a block as its type followed by its input values,
// e.g. "move 10 steps" or "goto 0 0".
func blockLabel(b *program.Block, cat *blocks.Catalog) string {
	bt, err := cat.Lookup(b.Type)
	if err != nil {
		return b.Type + "?"
	}

	parts := []string{bt.ID}
	for _, spec := range bt.Inputs {
		v, ok := b.Input(spec.Name)
		if !ok {
			v = spec.Default
		}
		s := v.String()
		if v.Kind() == blocks.KindText {
			s = fmt.Sprintf("%q", s)
		}
		if spec.Unit != "" {
			s += " " + spec.Unit
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// formatInputs renders a block's inputs for the edit line as
// "name=value; name=value" in schema order.
func formatInputs(b *program.Block, cat *blocks.Catalog) string {
	bt, err := cat.Lookup(b.Type)
	if err != nil {
		return ""
	}
	parts := make([]string, 0, len(bt.Inputs))
	for _, spec := range bt.Inputs {
		v, ok := b.Input(spec.Name)
		if !ok {
			v = spec.Default
		}
		parts = append(parts, spec.Name+"="+v.String())
	}
	return strings.Join(parts, "; ")
}

// applyInputs parses an edit line and stores each assignment as raw text.
// Values are coerced when the block runs, so anything is accepted here.
func applyInputs(s *stage.Store, id stage.ActorID, blockID program.BlockID, line string) error {
	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", part)
		}
		if err := s.EditInput(id, blockID, strings.TrimSpace(name), strings.TrimSpace(raw)); err != nil {
			return err
		}
	}
	return nil
}
