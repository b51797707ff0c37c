package tui

import (
	"testing"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/program"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		deg      float64
		expected rune
	}{
		{0, '→'},
		{20, '→'},
		{45, '↘'},
		{90, '↓'},
		{180, '←'},
		{270, '↑'},
		{350, '→'},
		{-90, '↑'},
	}
	for _, tt := range tests {
		if got := headingGlyph(tt.deg); got != tt.expected {
			t.Errorf("headingGlyph(%v) = %c, expected %c", tt.deg, got, tt.expected)
		}
	}
}

func TestDrawStage(t *testing.T) {
	s := core.NewScreen(50, 38) // 48x36 inner cells, 10 stage px per cell
	bounds := core.NewBounds(480, 360)

	actors := []stage.Actor{
		{ID: 1, Position: core.Vec{X: 75, Y: 75}, Size: 50, Color: core.ColorRed, Message: "hi"},
		{ID: 2, Position: core.Vec{X: 275, Y: 175}, Size: 50, Heading: 90, Color: core.ColorBlue, Thought: true, Message: "hm",
			Trail: []core.Vec{{X: 5, Y: 5}, {X: 15, Y: 5}}},
	}
	DrawStage(s, bounds, actors, 2, 1)

	if got := s.Get(0, 0); got != '┌' {
		t.Errorf("frame corner = %c", got)
	}
	// Actor 1 center (100,100) -> cell (1+10, 1+10)
	if got := s.GetCell(11, 11); got.Rune != '●' || got.Color != core.ColorRed {
		t.Errorf("actor 1 cell = %+v", got)
	}
	if got := s.Get(12, 11); got != '→' {
		t.Errorf("actor 1 heading = %c", got)
	}
	if got := string([]rune(s.Row(10))[11:15]); got != "\"hi\"" {
		t.Errorf("say bubble = %q", got)
	}
	// Actor 2 is selected and thinking
	if got := s.Get(31, 21); got != '◉' {
		t.Errorf("selected actor cell = %c", got)
	}
	if got := string([]rune(s.Row(20))[31:35]); got != "(hm)" {
		t.Errorf("think bubble = %q", got)
	}
	// Only the newest trail point is drawn
	if got := s.Get(1, 1); got != ' ' {
		t.Errorf("old trail point drawn: %c", got)
	}
	if got := s.Get(2, 1); got != '·' {
		t.Errorf("newest trail point = %c", got)
	}
}

func TestBlockLabelAndInputs(t *testing.T) {
	cat := blocks.Builtin()

	say, err := program.New(cat, blocks.TypeSay, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := blockLabel(say, cat); got != `say "Hello!" 2 sec` {
		t.Errorf("blockLabel(say) = %q", got)
	}
	if got := formatInputs(say, cat); got != "message=Hello!; duration=2" {
		t.Errorf("formatInputs(say) = %q", got)
	}

	unknown := &program.Block{Type: "dance"}
	if got := blockLabel(unknown, cat); got != "dance?" {
		t.Errorf("blockLabel(unknown) = %q", got)
	}
}

func TestApplyInputs(t *testing.T) {
	store := stage.New(core.DefaultConfig(), nil)
	store.Init()
	b, err := store.SubmitBlock(1, blocks.TypeSay, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := applyInputs(store, 1, b.ID, "message = Hi there; duration=abc;"); err != nil {
		t.Fatalf("applyInputs() failed: %v", err)
	}
	a, _ := store.Actor(1)
	got, _ := a.Program.Find(b.ID)
	if v, _ := got.Input("message"); v.String() != "Hi there" {
		t.Errorf("message = %q", v.String())
	}
	if v, _ := got.Input("duration"); v.Kind() != blocks.KindText || v.String() != "abc" {
		t.Errorf("duration should be stored raw, got %v", v)
	}

	if err := applyInputs(store, 1, b.ID, "nonsense"); err == nil {
		t.Error("expected error for missing '='")
	}
}
