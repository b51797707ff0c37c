package program

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
)

func mustNew(t *testing.T, typeID string, inputs map[string]blocks.Value) *Block {
	t.Helper()
	b, err := New(blocks.Builtin(), typeID, inputs)
	if err != nil {
		t.Fatalf("New(%s) failed: %v", typeID, err)
	}
	return b
}

func TestNewCopiesDefaults(t *testing.T) {
	b := mustNew(t, blocks.TypeSay, map[string]blocks.Value{"message": blocks.Text("hi")})

	if b.Inputs["message"].String() != "hi" {
		t.Errorf("message = %q, expected hi", b.Inputs["message"].String())
	}
	if f, _ := b.Inputs["duration"].Float(); f != 2 {
		t.Errorf("duration = %v, expected default 2", f)
	}
	if b.Container {
		t.Error("say should not be a container")
	}

	if _, err := New(blocks.Builtin(), "fly", nil); !errors.Is(err, blocks.ErrUnknownBlockType) {
		t.Errorf("New(fly) error = %v, expected ErrUnknownBlockType", err)
	}
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[BlockID]bool)
	for range 100 {
		id := NextID()
		if seen[id] {
			t.Fatalf("id %d handed out twice", id)
		}
		seen[id] = true
	}
}

func TestAppendLeavesOriginal(t *testing.T) {
	var p Program
	p = p.Append(mustNew(t, blocks.TypeMove, nil))
	q := p.Append(mustNew(t, blocks.TypeTurn, nil))

	if p.Len() != 1 || q.Len() != 2 {
		t.Errorf("lengths = %d, %d; expected 1, 2", p.Len(), q.Len())
	}
}

func TestAppendChild(t *testing.T) {
	rep := mustNew(t, blocks.TypeRepeat, nil)
	mv := mustNew(t, blocks.TypeMove, nil)
	p := Program{rep, mv}

	q, err := p.AppendChild(rep.ID, mustNew(t, blocks.TypeTurn, nil))
	if err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}
	if len(q[0].Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(q[0].Children))
	}
	if len(rep.Children) != 0 {
		t.Error("original container was mutated")
	}
	if q[1] != mv {
		t.Error("untouched siblings should be shared")
	}

	if _, err := p.AppendChild(mv.ID, mustNew(t, blocks.TypeTurn, nil)); !errors.Is(err, ErrNotContainer) {
		t.Errorf("AppendChild on move error = %v, expected ErrNotContainer", err)
	}
	if _, err := p.AppendChild(BlockID(1<<60), mv); !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("AppendChild on missing id error = %v, expected ErrBlockNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	rep := mustNew(t, blocks.TypeRepeat, nil)
	child := mustNew(t, blocks.TypeMove, nil)
	p, _ := Program{rep}.AppendChild(rep.ID, child)
	p = p.Append(mustNew(t, blocks.TypeWait, nil))

	q, err := p.Remove(child.ID)
	if err != nil {
		t.Fatalf("Remove(child) failed: %v", err)
	}
	if len(q[0].Children) != 0 || len(p[0].Children) != 1 {
		t.Error("nested remove should only affect the new program")
	}

	q, err = p.Remove(p[0].ID)
	if err != nil {
		t.Fatalf("Remove(container) failed: %v", err)
	}
	if q.Len() != 1 || q[0].Type != blocks.TypeWait {
		t.Errorf("unexpected program after removing container: %v", q)
	}
	if q.Count() != 1 {
		t.Errorf("container body should be removed with it, count = %d", q.Count())
	}

	if _, err := p.Remove(BlockID(1 << 60)); !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("Remove(missing) error = %v", err)
	}
}

func TestReorder(t *testing.T) {
	a := mustNew(t, blocks.TypeMove, nil)
	b := mustNew(t, blocks.TypeTurn, nil)
	c := mustNew(t, blocks.TypeWait, nil)
	p := Program{a, b, c}

	tests := []struct {
		from, to int
		expected []*Block
	}{
		{0, 2, []*Block{b, c, a}},
		{2, 0, []*Block{c, a, b}},
		{1, 1, []*Block{a, b, c}},
	}

	for _, tc := range tests {
		q, err := p.Reorder(tc.from, tc.to)
		if err != nil {
			t.Fatalf("Reorder(%d,%d) failed: %v", tc.from, tc.to, err)
		}
		for i := range tc.expected {
			if q[i] != tc.expected[i] {
				t.Errorf("Reorder(%d,%d)[%d] = %s, expected %s", tc.from, tc.to, i, q[i].Type, tc.expected[i].Type)
			}
		}
	}

	if p[0] != a || p[2] != c {
		t.Error("Reorder mutated the original")
	}
	if _, err := p.Reorder(0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Reorder(0,3) error = %v, expected ErrIndexOutOfRange", err)
	}
	if _, err := p.Reorder(-1, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Reorder(-1,0) error = %v, expected ErrIndexOutOfRange", err)
	}
}

func TestDuplicateContainerDeepCopies(t *testing.T) {
	rep := mustNew(t, blocks.TypeRepeat, map[string]blocks.Value{"times": blocks.Number(3)})
	p, _ := Program{rep}.AppendChild(rep.ID, mustNew(t, blocks.TypeMove, nil))
	p, _ = p.AppendChild(rep.ID, mustNew(t, blocks.TypeTurn, nil))

	q, dup, err := p.Duplicate(p[0].ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if q.Len() != 2 || q[1] != dup {
		t.Fatalf("duplicate should be inserted after the original")
	}
	if dup.ID == p[0].ID {
		t.Error("duplicate kept the original id")
	}
	if len(dup.Children) != 2 {
		t.Fatalf("duplicate has %d children, expected 2", len(dup.Children))
	}
	for i, child := range dup.Children {
		if child.ID == p[0].Children[i].ID {
			t.Errorf("child %d kept the original id", i)
		}
		if child.Type != p[0].Children[i].Type {
			t.Errorf("child %d type = %s, expected %s", i, child.Type, p[0].Children[i].Type)
		}
	}

	// Editing the copy must not reach the original
	q, err = q.SetInput(dup.Children[0].ID, "steps", blocks.Text("99"))
	if err != nil {
		t.Fatalf("SetInput failed: %v", err)
	}
	if q[0].Children[0].Inputs["steps"].String() != "10" {
		t.Errorf("original child steps = %s, expected 10", q[0].Children[0].Inputs["steps"])
	}
}

func TestDuplicateNested(t *testing.T) {
	rep := mustNew(t, blocks.TypeRepeat, nil)
	child := mustNew(t, blocks.TypeMove, nil)
	p, _ := Program{rep}.AppendChild(rep.ID, child)

	q, dup, err := p.Duplicate(child.ID)
	if err != nil {
		t.Fatalf("Duplicate(child) failed: %v", err)
	}
	if len(q[0].Children) != 2 || q[0].Children[1] != dup {
		t.Error("nested duplicate should land right after the original child")
	}
	if len(p[0].Children) != 1 {
		t.Error("original body was mutated")
	}
}

func TestSetInputStoresRaw(t *testing.T) {
	mv := mustNew(t, blocks.TypeMove, nil)
	p := Program{mv}

	q, err := p.SetInput(mv.ID, "steps", blocks.Text("abc"))
	if err != nil {
		t.Fatalf("SetInput failed: %v", err)
	}
	if got := q[0].Inputs["steps"]; got.Kind() != blocks.KindText || got.String() != "abc" {
		t.Errorf("stored input = %v, expected raw text abc", got)
	}
	if p[0].Inputs["steps"].String() != "10" {
		t.Error("SetInput mutated the original block")
	}
	if q[0].ID != mv.ID {
		t.Error("SetInput should keep the block id")
	}
}

func TestCloneIndependence(t *testing.T) {
	rep := mustNew(t, blocks.TypeRepeat, nil)
	p, _ := Program{rep}.AppendChild(rep.ID, mustNew(t, blocks.TypeMove, nil))

	c := p.Clone()
	if c.Count() != p.Count() {
		t.Fatalf("clone count = %d, expected %d", c.Count(), p.Count())
	}
	if c[0].ID == p[0].ID || c[0].Children[0].ID == p[0].Children[0].ID {
		t.Error("clone should use fresh ids")
	}

	c[0].Inputs["times"] = blocks.Number(1)
	if p[0].Inputs["times"].String() != "10" {
		t.Error("clone shares input map with original")
	}

	if Program(nil).Clone() != nil {
		t.Error("clone of nil should be nil")
	}
	if p.Clear().Len() != 0 || p.Len() != 1 {
		t.Error("Clear should return an empty program without touching the receiver")
	}
}
