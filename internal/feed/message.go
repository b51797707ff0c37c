package feed

import (
	"strings"

	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// Message types sent to clients.
const (
	TypeSnapshot = "snapshot" // Full stage, sent once on connect
	TypeActor    = "actor"    // One actor changed
	TypeDeleted  = "deleted"  // One actor was removed
)

// Message is the JSON document sent for every event.
// Seq orders messages: an event message's Seq is higher than that of the
// snapshot it follows.
type Message struct {
	Type    string       `json:"type"`
	Seq     uint64       `json:"seq"`
	Changed []string     `json:"changed,omitempty"`
	Actor   *ActorState  `json:"actor,omitempty"`
	Actors  []ActorState `json:"actors,omitempty"`
}

// ActorState is the wire form of an actor.
type ActorState struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Heading  float64     `json:"heading"`
	Size     float64     `json:"size"`
	Color    string      `json:"color"`
	Running  bool        `json:"running"`
	Step     *int        `json:"step"` // null when idle
	Message  string      `json:"message,omitempty"`
	Thought  bool        `json:"thought,omitempty"`
	Blocks   int         `json:"blocks"`
	TrailLen int         `json:"trail_len"`
	TrailTip *[2]float64 `json:"trail_tip,omitempty"`
}

func actorState(a stage.Actor) ActorState {
	s := ActorState{
		ID:       int(a.ID),
		Name:     a.Name,
		X:        a.Position.X,
		Y:        a.Position.Y,
		Heading:  a.Heading,
		Size:     a.Size,
		Color:    a.Color.String(),
		Running:  a.Running,
		Message:  a.Message,
		Thought:  a.Thought,
		Blocks:   a.Program.Count(),
		TrailLen: len(a.Trail),
	}
	if a.Step != stage.NoStep {
		step := a.Step
		s.Step = &step
	}
	if n := len(a.Trail); n > 0 {
		tip := a.Trail[n-1]
		s.TrailTip = &[2]float64{tip.X, tip.Y}
	}
	return s
}

func eventMessage(ev stage.Event) Message {
	st := actorState(ev.Actor)
	if ev.Changed.Has(stage.FieldDeleted) {
		return Message{Type: TypeDeleted, Seq: ev.Seq, Actor: &st}
	}
	return Message{
		Type:    TypeActor,
		Seq:     ev.Seq,
		Changed: strings.Split(ev.Changed.String(), "|"),
		Actor:   &st,
	}
}

func snapshotMessage(actors []stage.Actor, seq uint64) Message {
	m := Message{Type: TypeSnapshot, Seq: seq, Actors: make([]ActorState, len(actors))}
	for i, a := range actors {
		m.Actors[i] = actorState(a)
	}
	return m
}
