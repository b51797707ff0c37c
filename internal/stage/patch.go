package stage

import (
	"strings"

	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/program"
)

// Field is a set of actor fields, used both to say which fields a Patch
// carries and which fields an Event changed.
type Field uint16

const (
	FieldPosition Field = 1 << iota
	FieldHeading
	FieldSize
	FieldColor
	FieldMessage // Message and Thought together
	FieldTrail
	FieldRunning
	FieldStep
	FieldProgram
	FieldName
	FieldCreated // Event only: actor was added
	FieldDeleted // Event only: actor was removed
)

var fieldNames = []struct {
	f    Field
	name string
}{
	{FieldPosition, "position"},
	{FieldHeading, "heading"},
	{FieldSize, "size"},
	{FieldColor, "color"},
	{FieldMessage, "message"},
	{FieldTrail, "trail"},
	{FieldRunning, "running"},
	{FieldStep, "step"},
	{FieldProgram, "program"},
	{FieldName, "name"},
	{FieldCreated, "created"},
	{FieldDeleted, "deleted"},
}

// Has reports whether all fields in o are set in f.
func (f Field) Has(o Field) bool {
	return f&o == o
}

// String lists the set fields separated by '|'.
func (f Field) String() string {
	var parts []string
	for _, fn := range fieldNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Patch is a partial actor update. Only fields named in Fields are applied;
// everything else keeps its current value. Build patches with the With*
// methods:
//
//	p := stage.Patch{}.WithPosition(v).WithTrail(v)
type Patch struct {
	Fields   Field
	Position core.Vec
	Heading  float64
	Size     float64
	Color    core.Color
	Message  string
	Thought  bool
	Trail    []core.Vec // Points appended to the trail
	Running  bool
	Step     int
	Program  program.Program
	Name     string
}

func (p Patch) WithPosition(v core.Vec) Patch {
	p.Fields |= FieldPosition
	p.Position = v
	return p
}

func (p Patch) WithHeading(deg float64) Patch {
	p.Fields |= FieldHeading
	p.Heading = deg
	return p
}

func (p Patch) WithSize(size float64) Patch {
	p.Fields |= FieldSize
	p.Size = size
	return p
}

func (p Patch) WithColor(c core.Color) Patch {
	p.Fields |= FieldColor
	p.Color = c
	return p
}

// WithMessage sets the speech bubble. An empty text clears it.
func (p Patch) WithMessage(text string, thought bool) Patch {
	p.Fields |= FieldMessage
	p.Message = text
	p.Thought = thought && text != ""
	return p
}

// WithTrail appends points to the trail. Trails only grow.
func (p Patch) WithTrail(points ...core.Vec) Patch {
	p.Fields |= FieldTrail
	p.Trail = append(p.Trail[:len(p.Trail):len(p.Trail)], points...)
	return p
}

func (p Patch) WithRunning(running bool) Patch {
	p.Fields |= FieldRunning
	p.Running = running
	return p
}

func (p Patch) WithStep(step int) Patch {
	p.Fields |= FieldStep
	p.Step = step
	return p
}

func (p Patch) WithProgram(prog program.Program) Patch {
	p.Fields |= FieldProgram
	p.Program = prog
	return p
}

func (p Patch) WithName(name string) Patch {
	p.Fields |= FieldName
	p.Name = name
	return p
}

// apply merges the patch into a and returns the fields that actually changed.
// Positions are clamped so the actor stays on the stage, headings normalized
// and sizes kept within [MinSize, MaxSize].
func (p Patch) apply(a *Actor, bounds core.Bounds) Field {
	var changed Field

	if p.Fields.Has(FieldName) && a.Name != p.Name {
		a.Name = p.Name
		changed |= FieldName
	}
	if p.Fields.Has(FieldSize) {
		size := core.ClampF(p.Size, MinSize, MaxSize)
		if size != a.Size {
			a.Size = size
			changed |= FieldSize
		}
	}
	if p.Fields.Has(FieldPosition) || changed.Has(FieldSize) {
		pos := a.Position
		if p.Fields.Has(FieldPosition) {
			pos = p.Position
		}
		pos = bounds.Inset(a.Size).Clamp(pos)
		if pos != a.Position {
			a.Position = pos
			changed |= FieldPosition
		}
	}
	if p.Fields.Has(FieldHeading) {
		h := core.NormalizeDegrees(p.Heading)
		if h != a.Heading {
			a.Heading = h
			changed |= FieldHeading
		}
	}
	if p.Fields.Has(FieldColor) && a.Color != p.Color {
		a.Color = p.Color
		changed |= FieldColor
	}
	if p.Fields.Has(FieldMessage) && (a.Message != p.Message || a.Thought != p.Thought) {
		a.Message = p.Message
		a.Thought = p.Thought
		changed |= FieldMessage
	}
	if p.Fields.Has(FieldTrail) && len(p.Trail) > 0 {
		for _, pt := range p.Trail {
			a.Trail = append(a.Trail, bounds.Clamp(pt))
		}
		changed |= FieldTrail
	}
	if p.Fields.Has(FieldRunning) && a.Running != p.Running {
		a.Running = p.Running
		changed |= FieldRunning
	}
	if p.Fields.Has(FieldStep) && a.Step != p.Step {
		a.Step = p.Step
		changed |= FieldStep
	}
	if p.Fields.Has(FieldProgram) {
		// A program write always counts as a change
		a.Program = p.Program
		changed |= FieldProgram
	}

	return changed
}
