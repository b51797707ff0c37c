package stage

import (
	"fmt"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/program"
)

// Editor operations. Each one rewrites the actor's program through the
// same path as Update and fails with ErrActorBusy while the actor runs.

// SubmitBlock appends a new block of the given type to the actor's program.
func (s *Store) SubmitBlock(id ActorID, typeID string, inputs map[string]blocks.Value) (*program.Block, error) {
	b, err := program.New(s.catalog, typeID, inputs)
	if err != nil {
		return nil, err
	}
	err = s.editProgram(id, func(p program.Program) (program.Program, error) {
		return p.Append(b), nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SubmitChild appends a new block to the body of a container block.
func (s *Store) SubmitChild(id ActorID, containerID program.BlockID, typeID string, inputs map[string]blocks.Value) (*program.Block, error) {
	b, err := program.New(s.catalog, typeID, inputs)
	if err != nil {
		return nil, err
	}
	err = s.editProgram(id, func(p program.Program) (program.Program, error) {
		return p.AppendChild(containerID, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// EditInput stores raw editor text as a block input. It is coerced only
// when the block runs.
func (s *Store) EditInput(id ActorID, blockID program.BlockID, name, raw string) error {
	return s.editProgram(id, func(p program.Program) (program.Program, error) {
		return p.SetInput(blockID, name, blocks.Text(raw))
	})
}

// ReorderBlock moves a top-level block.
func (s *Store) ReorderBlock(id ActorID, from, to int) error {
	return s.editProgram(id, func(p program.Program) (program.Program, error) {
		return p.Reorder(from, to)
	})
}

// RemoveBlock deletes a block, and its body if it is a container.
func (s *Store) RemoveBlock(id ActorID, blockID program.BlockID) error {
	return s.editProgram(id, func(p program.Program) (program.Program, error) {
		return p.Remove(blockID)
	})
}

// DuplicateBlock inserts a deep copy right after the block.
func (s *Store) DuplicateBlock(id ActorID, blockID program.BlockID) (*program.Block, error) {
	var dup *program.Block
	err := s.editProgram(id, func(p program.Program) (program.Program, error) {
		next, d, err := p.Duplicate(blockID)
		dup = d
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

// ClearProgram empties the actor's program.
func (s *Store) ClearProgram(id ActorID) error {
	return s.editProgram(id, func(p program.Program) (program.Program, error) {
		return p.Clear(), nil
	})
}

// SetProgram replaces the actor's program.
func (s *Store) SetProgram(id ActorID, prog program.Program) error {
	return s.editProgram(id, func(program.Program) (program.Program, error) {
		return prog, nil
	})
}

func (s *Store) editProgram(id ActorID, fn func(program.Program) (program.Program, error)) error {
	s.mu.Lock()
	a, ok := s.actors[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrActorNotFound, id)
	}
	if a.Running {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrActorBusy, a)
	}

	next, err := fn(a.Program)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	changed := Patch{}.WithProgram(next).apply(a, s.bounds)
	s.publishAndUnlock(Event{ActorID: id, Changed: changed, Actor: a.snapshot()})
	return nil
}
