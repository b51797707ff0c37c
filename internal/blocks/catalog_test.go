package blocks

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	c := NewBuiltinCatalog()

	bt, err := c.Lookup(TypeRepeat)
	if err != nil {
		t.Fatalf("Lookup(repeat) failed: %v", err)
	}
	if !bt.Container {
		t.Error("repeat should be a container")
	}

	_, err = c.Lookup("fly")
	if !errors.Is(err, ErrUnknownBlockType) {
		t.Errorf("Lookup(fly) error = %v, expected ErrUnknownBlockType", err)
	}
}

func TestListByCategoryKeepsRegistrationOrder(t *testing.T) {
	c := NewBuiltinCatalog()

	motion := c.ListByCategory(CategoryMotion)
	expected := []string{TypeMove, TypeTurn, TypeGoto, TypeRepeat, TypeWait}
	if len(motion) != len(expected) {
		t.Fatalf("Expected %d motion blocks, got %d", len(expected), len(motion))
	}
	for i, id := range expected {
		if motion[i].ID != id {
			t.Errorf("motion[%d] = %q, expected %q", i, motion[i].ID, id)
		}
	}

	looks := c.ListByCategory(CategoryLooks)
	if len(looks) != 4 || looks[0].ID != TypeSay {
		t.Errorf("Unexpected looks palette: %v", looks)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := NewCatalog()
	bt := BlockType{ID: "spin", Category: CategoryMotion}

	if err := c.Register(bt); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := c.Register(bt); err == nil {
		t.Error("second Register should fail")
	}
	if err := c.Register(BlockType{}); err == nil {
		t.Error("Register with empty id should fail")
	}
	if !c.Exists("spin") {
		t.Error("spin should exist after registration")
	}
}

func TestRegisterCopiesSchema(t *testing.T) {
	c := NewCatalog()
	inputs := []InputSpec{{Name: "n", Kind: KindNumber, Default: Number(1)}}
	c.MustRegister(BlockType{ID: "sample", Inputs: inputs})

	inputs[0].Name = "mutated"

	bt, _ := c.Lookup("sample")
	if _, ok := bt.Input("n"); !ok {
		t.Error("catalog entry changed after caller mutated its slice")
	}
}

func TestBuiltinIsShared(t *testing.T) {
	if Builtin() != Builtin() {
		t.Error("Builtin should return the same catalog every time")
	}
}
