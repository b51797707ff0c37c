// Package blocks provides the block catalog: the static registry mapping a
// block type id to its category, input schema and container flag.
// Behavior for each type is registered separately with the engine, so
// adding a block type means one catalog entry plus one handler.
package blocks

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownBlockType is returned when a type id has no catalog entry.
var ErrUnknownBlockType = errors.New("blocks: unknown block type")

// Category groups block types in the palette.
type Category string

const (
	CategoryMotion Category = "motion"
	CategoryLooks  Category = "looks"
)

// InputSpec declares one named input of a block type.
type InputSpec struct {
	Name    string
	Kind    Kind
	Integer bool     // Numeric input is truncated toward zero when read
	Default Value    // Used when the input is unset or unparsable
	Min     *float64 // Optional lower bound applied when read
	Max     *float64 // Optional upper bound applied when read
	Unit    string   // Display unit, e.g. "steps"
}

// BlockType is an immutable catalog entry.
type BlockType struct {
	ID        string
	Category  Category
	Label     string
	Container bool // Owns a nested child sequence executed as a loop body
	Inputs    []InputSpec
}

// Input returns the spec for the named input.
func (bt BlockType) Input(name string) (InputSpec, bool) {
	for _, in := range bt.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// Defaults returns a fresh map of every input set to its default.
func (bt BlockType) Defaults() map[string]Value {
	out := make(map[string]Value, len(bt.Inputs))
	for _, in := range bt.Inputs {
		out[in.Name] = in.Default
	}
	return out
}

// Catalog is a registry of block types keyed by id.
// Types keep their registration order for palette display.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]BlockType
	order []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types: make(map[string]BlockType),
	}
}

// Register adds a block type to the catalog.
// Returns an error if the id is empty or already registered.
func (c *Catalog) Register(bt BlockType) error {
	if bt.ID == "" {
		return errors.New("blocks: block type id is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.types[bt.ID]; exists {
		return fmt.Errorf("blocks: block type %q already registered", bt.ID)
	}

	// Copy the schema so later edits to the caller's slice cannot leak in
	bt.Inputs = append([]InputSpec(nil), bt.Inputs...)
	c.types[bt.ID] = bt
	c.order = append(c.order, bt.ID)
	return nil
}

// MustRegister is Register that panics on error.
// Intended for catalogs assembled at process start.
func (c *Catalog) MustRegister(bt BlockType) {
	if err := c.Register(bt); err != nil {
		panic(err)
	}
}

// Lookup returns the block type with the given id.
func (c *Catalog) Lookup(id string) (BlockType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bt, ok := c.types[id]
	if !ok {
		return BlockType{}, fmt.Errorf("%w %q", ErrUnknownBlockType, id)
	}
	return bt, nil
}

// Exists checks if a block type with the given id is registered.
func (c *Catalog) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.types[id]
	return ok
}

// ListByCategory returns the types in a category, in registration order.
func (c *Catalog) ListByCategory(cat Category) []BlockType {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []BlockType
	for _, id := range c.order {
		if bt := c.types[id]; bt.Category == cat {
			result = append(result, bt)
		}
	}
	return result
}

// All returns every registered type, in registration order.
func (c *Catalog) All() []BlockType {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]BlockType, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.types[id])
	}
	return result
}
