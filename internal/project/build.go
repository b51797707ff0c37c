package project

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/program"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// Templates converts the file into actor templates ready for Store.Spawn.
// Block types are checked against the catalog.
func (f *File) Templates(cat *blocks.Catalog) ([]stage.Actor, error) {
	out := make([]stage.Actor, 0, len(f.Actors))
	for i, spec := range f.Actors {
		prog, err := buildProgram(cat, spec.Program, fmt.Sprintf("actors[%d].program", i))
		if err != nil {
			return nil, err
		}

		color := stage.DefaultColor
		if spec.Color != "" {
			c, ok := core.ParseColor(spec.Color)
			if !ok {
				return nil, fmt.Errorf("project: actors[%d]: unknown color %q", i, spec.Color)
			}
			color = c
		}

		out = append(out, stage.Actor{
			Name:     spec.Name,
			Position: core.Vec{X: spec.X, Y: spec.Y},
			Heading:  spec.Heading,
			Size:     spec.Size,
			Color:    color,
			Program:  prog,
		})
	}
	return out, nil
}

func buildProgram(cat *blocks.Catalog, specs []BlockSpec, path string) (program.Program, error) {
	var prog program.Program
	for i, spec := range specs {
		at := path + "[" + strconv.Itoa(i) + "]"

		inputs := make(map[string]blocks.Value, len(spec.Inputs))
		for k, v := range spec.Inputs {
			inputs[k] = blocks.FromAny(v)
		}
		b, err := program.New(cat, spec.Block, inputs)
		if err != nil {
			return nil, fmt.Errorf("project: %s: %w", at, err)
		}

		if len(spec.Children) > 0 {
			if !b.Container {
				return nil, fmt.Errorf("project: %s: %w", at, program.ErrNotContainer)
			}
			b.Children, err = buildProgram(cat, spec.Children, at+".children")
			if err != nil {
				return nil, err
			}
		}
		prog = append(prog, b)
	}
	return prog, nil
}

// Apply replaces everything on the stage with the file's actors.
// The first actor is selected.
func (f *File) Apply(s *stage.Store) error {
	actors, err := f.Templates(s.Catalog())
	if err != nil {
		return err
	}

	s.Reset()
	for _, a := range actors {
		s.Spawn(a)
	}
	return nil
}

// FromActors builds a file describing the given actors' current state.
func FromActors(name string, actors []stage.Actor) *File {
	f := &File{Name: name, Actors: make([]ActorSpec, 0, len(actors))}
	for _, a := range actors {
		f.Actors = append(f.Actors, ActorSpec{
			Name:    a.Name,
			X:       a.Position.X,
			Y:       a.Position.Y,
			Heading: a.Heading,
			Size:    a.Size,
			Color:   a.Color.String(),
			Program: specsFromProgram(a.Program),
		})
	}
	return f
}

func specsFromProgram(p program.Program) []BlockSpec {
	if len(p) == 0 {
		return nil
	}
	out := make([]BlockSpec, len(p))
	for i, b := range p {
		spec := BlockSpec{Block: b.Type, Children: specsFromProgram(b.Children)}
		if len(b.Inputs) > 0 {
			spec.Inputs = make(map[string]any, len(b.Inputs))
			for k, v := range b.Inputs {
				spec.Inputs[k] = v.Any()
			}
		}
		out[i] = spec
	}
	return out
}

// Export captures the store's actors as a file.
func Export(name string, s *stage.Store) *File {
	return FromActors(name, s.Actors())
}
