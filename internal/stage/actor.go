package stage

import (
	"fmt"

	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/program"
)

// ActorID identifies an actor on the stage. IDs start at 1 and are never
// reused within a store's lifetime (Reset starts over).
type ActorID int

// NoStep is the Step value of an actor that is not running.
const NoStep = -1

// Default actor appearance.
const (
	DefaultSize  = 50.0
	MinSize      = 20.0
	MaxSize      = 100.0
	DefaultColor = core.ColorBlue
)

// Actor is a snapshot of one sprite's observable state.
type Actor struct {
	ID       ActorID
	Name     string
	Position core.Vec // Top-left corner, kept inside the stage
	Heading  float64  // Degrees in [0, 360); 0 points along +X
	Size     float64
	Color    core.Color
	Program  program.Program
	Running  bool
	Step     int    // Top-level index being executed, NoStep when idle
	Message  string // Active say/think bubble, "" when none
	Thought  bool   // Message came from think rather than say
	Trail    []core.Vec
}

// Center returns the middle of the actor's square.
func (a Actor) Center() core.Vec {
	return a.Position.Add(core.Vec{X: a.Size / 2, Y: a.Size / 2})
}

// Overlaps reports whether two actors' positions are closer than their
// mean size.
func (a Actor) Overlaps(b Actor) bool {
	return core.Distance(a.Position, b.Position) < (a.Size+b.Size)/2
}

// String returns a short description used in logs.
func (a Actor) String() string {
	return fmt.Sprintf("%s#%d", a.Name, a.ID)
}

// snapshot returns a copy that shares nothing mutable with the store.
// The trail is clipped so appends by the store never show through.
func (a *Actor) snapshot() Actor {
	s := *a
	s.Trail = a.Trail[:len(a.Trail):len(a.Trail)]
	return s
}
