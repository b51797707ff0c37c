package blocks

import "sync"

// Builtin block type ids.
const (
	TypeMove       = "move"
	TypeTurn       = "turn"
	TypeGoto       = "goto"
	TypeRepeat     = "repeat"
	TypeWait       = "wait"
	TypeSay        = "say"
	TypeThink      = "think"
	TypeChangeSize = "changesize"
	TypeSetColor   = "setcolor"
)

func bound(f float64) *float64 {
	return &f
}

// BuiltinTypes returns the builtin block types in palette order.
func BuiltinTypes() []BlockType {
	return []BlockType{
		{
			ID:       TypeMove,
			Category: CategoryMotion,
			Label:    "Move",
			Inputs: []InputSpec{
				{Name: "steps", Kind: KindNumber, Integer: true, Default: Number(10), Unit: "steps"},
			},
		},
		{
			ID:       TypeTurn,
			Category: CategoryMotion,
			Label:    "Turn",
			Inputs: []InputSpec{
				{Name: "degrees", Kind: KindNumber, Integer: true, Default: Number(15), Unit: "degrees"},
			},
		},
		{
			ID:       TypeGoto,
			Category: CategoryMotion,
			Label:    "Go to",
			Inputs: []InputSpec{
				{Name: "x", Kind: KindNumber, Default: Number(0)},
				{Name: "y", Kind: KindNumber, Default: Number(0)},
			},
		},
		{
			ID:        TypeRepeat,
			Category:  CategoryMotion,
			Label:     "Repeat",
			Container: true,
			Inputs: []InputSpec{
				{Name: "times", Kind: KindNumber, Integer: true, Default: Number(10), Unit: "times"},
			},
		},
		{
			ID:       TypeWait,
			Category: CategoryMotion,
			Label:    "Wait",
			Inputs: []InputSpec{
				{Name: "seconds", Kind: KindNumber, Default: Number(1), Min: bound(0), Unit: "seconds"},
			},
		},
		{
			ID:       TypeSay,
			Category: CategoryLooks,
			Label:    "Say",
			Inputs: []InputSpec{
				{Name: "message", Kind: KindText, Default: Text("Hello!")},
				{Name: "duration", Kind: KindNumber, Default: Number(2), Min: bound(0), Unit: "sec"},
			},
		},
		{
			ID:       TypeThink,
			Category: CategoryLooks,
			Label:    "Think",
			Inputs: []InputSpec{
				{Name: "message", Kind: KindText, Default: Text("Hmm...")},
				{Name: "duration", Kind: KindNumber, Default: Number(2), Min: bound(0), Unit: "sec"},
			},
		},
		{
			ID:       TypeChangeSize,
			Category: CategoryLooks,
			Label:    "Change size",
			Inputs: []InputSpec{
				{Name: "change", Kind: KindNumber, Integer: true, Default: Number(10)},
			},
		},
		{
			ID:       TypeSetColor,
			Category: CategoryLooks,
			Label:    "Set color",
			Inputs: []InputSpec{
				{Name: "color", Kind: KindNumber, Integer: true, Default: Number(0), Min: bound(0)},
			},
		},
	}
}

// Builtin returns the shared catalog of builtin block types.
// It is built once and must not be registered into; use NewBuiltinCatalog
// for a catalog that will be extended.
var Builtin = sync.OnceValue(NewBuiltinCatalog)

// NewBuiltinCatalog creates a fresh catalog holding the builtin types.
func NewBuiltinCatalog() *Catalog {
	c := NewCatalog()
	for _, bt := range BuiltinTypes() {
		c.MustRegister(bt)
	}
	return c
}
