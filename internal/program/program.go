// Package program holds the in-memory representation of an actor's block
// program: an ordered sequence of block instances where container blocks
// own a nested child sequence.
//
// Programs are values. Every operation returns a new Program and never
// mutates a Block reachable from an older one, so a Program handed to a
// subscriber or captured by a running engine stays stable.
package program

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
)

var (
	ErrBlockNotFound   = errors.New("program: block not found")
	ErrNotContainer    = errors.New("program: block is not a container")
	ErrIndexOutOfRange = errors.New("program: index out of range")
)

// BlockID identifies one block instance. IDs are never reused.
type BlockID uint64

var lastID atomic.Uint64

// NextID returns a fresh, process-wide unique block id.
func NextID() BlockID {
	return BlockID(lastID.Add(1))
}

// Block is one placed instance of a block type.
type Block struct {
	ID        BlockID
	Type      string
	Inputs    map[string]blocks.Value
	Container bool
	Children  Program // Loop body; always empty for non-containers
}

// Program is an ordered block sequence.
type Program []*Block

// New creates a block instance of the given type with the catalog defaults
// plus any provided inputs. Inputs not in the schema are kept as given.
func New(cat *blocks.Catalog, typeID string, inputs map[string]blocks.Value) (*Block, error) {
	bt, err := cat.Lookup(typeID)
	if err != nil {
		return nil, err
	}

	values := bt.Defaults()
	for k, v := range inputs {
		values[k] = v
	}

	return &Block{
		ID:        NextID(),
		Type:      bt.ID,
		Inputs:    values,
		Container: bt.Container,
	}, nil
}

// Input returns the raw stored value for an input.
func (b *Block) Input(name string) (blocks.Value, bool) {
	v, ok := b.Inputs[name]
	return v, ok
}

// clone deep-copies the block. With fresh set, every copied block gets a
// new id; otherwise ids are kept.
func (b *Block) clone(fresh bool) *Block {
	c := &Block{
		ID:        b.ID,
		Type:      b.Type,
		Inputs:    make(map[string]blocks.Value, len(b.Inputs)),
		Container: b.Container,
	}
	if fresh {
		c.ID = NextID()
	}
	for k, v := range b.Inputs {
		c.Inputs[k] = v
	}
	if len(b.Children) > 0 {
		c.Children = make(Program, len(b.Children))
		for i, child := range b.Children {
			c.Children[i] = child.clone(fresh)
		}
	}
	return c
}

// shallow copies the block header so one field can change without
// touching the original. Children and inputs are still shared.
func (b *Block) shallow() *Block {
	c := *b
	return &c
}

// Len returns the number of top-level blocks.
func (p Program) Len() int {
	return len(p)
}

// Count returns the number of blocks including nested children.
func (p Program) Count() int {
	n := 0
	for _, b := range p {
		n += 1 + b.Children.Count()
	}
	return n
}

// Find returns the block with the given id anywhere in the program.
func (p Program) Find(id BlockID) (*Block, bool) {
	for _, b := range p {
		if b.ID == id {
			return b, true
		}
		if found, ok := b.Children.Find(id); ok {
			return found, true
		}
	}
	return nil, false
}

// Clone returns a structural copy with fresh ids throughout.
// Edits to the copy never affect the original.
func (p Program) Clone() Program {
	if p == nil {
		return nil
	}
	out := make(Program, len(p))
	for i, b := range p {
		out[i] = b.clone(true)
	}
	return out
}

// Clear returns an empty program.
func (p Program) Clear() Program {
	return Program{}
}

// Append returns the program with b added at the end.
func (p Program) Append(b *Block) Program {
	out := make(Program, len(p), len(p)+1)
	copy(out, p)
	return append(out, b)
}

// AppendChild returns the program with b added to the end of the body of
// the container with the given id.
func (p Program) AppendChild(containerID BlockID, b *Block) (Program, error) {
	return p.rewrite(containerID, func(target *Block) (*Block, error) {
		if !target.Container {
			return nil, fmt.Errorf("%w: %d", ErrNotContainer, containerID)
		}
		c := target.shallow()
		c.Children = target.Children.Append(b)
		return c, nil
	})
}

// Remove returns the program without the block with the given id.
// Removing a container removes its body with it.
func (p Program) Remove(id BlockID) (Program, error) {
	for i, b := range p {
		if b.ID == id {
			out := make(Program, 0, len(p)-1)
			out = append(out, p[:i]...)
			return append(out, p[i+1:]...), nil
		}
	}
	return p.rewriteChildren(id, func(children Program) (Program, error) {
		return children.Remove(id)
	})
}

// Reorder returns the program with the top-level block at from moved to to.
func (p Program) Reorder(from, to int) (Program, error) {
	if from < 0 || from >= len(p) || to < 0 || to >= len(p) {
		return nil, fmt.Errorf("%w: move %d -> %d in program of %d", ErrIndexOutOfRange, from, to, len(p))
	}

	out := make(Program, 0, len(p))
	out = append(out, p[:from]...)
	out = append(out, p[from+1:]...)

	moved := p[from]
	out = append(out[:to], append(Program{moved}, out[to:]...)...)
	return out, nil
}

// Duplicate returns the program with a deep copy of the block inserted
// right after the original, in the same sequence. The copy and all of its
// children get fresh ids.
func (p Program) Duplicate(id BlockID) (Program, *Block, error) {
	for i, b := range p {
		if b.ID == id {
			dup := b.clone(true)
			out := make(Program, 0, len(p)+1)
			out = append(out, p[:i+1]...)
			out = append(out, dup)
			return append(out, p[i+1:]...), dup, nil
		}
	}

	var dup *Block
	out, err := p.rewriteChildren(id, func(children Program) (Program, error) {
		next, d, err := children.Duplicate(id)
		dup = d
		return next, err
	})
	return out, dup, err
}

// SetInput returns the program with one input of one block replaced.
// The value is stored as given; coercion happens when it is consumed.
func (p Program) SetInput(id BlockID, name string, v blocks.Value) (Program, error) {
	return p.rewrite(id, func(target *Block) (*Block, error) {
		c := target.shallow()
		c.Inputs = make(map[string]blocks.Value, len(target.Inputs)+1)
		for k, old := range target.Inputs {
			c.Inputs[k] = old
		}
		c.Inputs[name] = v
		return c, nil
	})
}

// rewrite replaces the block with the given id by fn's result, copying
// every sequence on the path from the root to it.
func (p Program) rewrite(id BlockID, fn func(*Block) (*Block, error)) (Program, error) {
	for i, b := range p {
		if b.ID == id {
			repl, err := fn(b)
			if err != nil {
				return nil, err
			}
			out := make(Program, len(p))
			copy(out, p)
			out[i] = repl
			return out, nil
		}
	}
	return p.rewriteChildren(id, func(children Program) (Program, error) {
		return children.rewrite(id, fn)
	})
}

// rewriteChildren finds the container whose subtree holds id and replaces
// its body with fn's result.
func (p Program) rewriteChildren(id BlockID, fn func(Program) (Program, error)) (Program, error) {
	for i, b := range p {
		if _, ok := b.Children.Find(id); !ok {
			continue
		}
		children, err := fn(b.Children)
		if err != nil {
			return nil, err
		}
		c := b.shallow()
		c.Children = children
		out := make(Program, len(p))
		copy(out, p)
		out[i] = c
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, id)
}
