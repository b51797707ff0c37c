// Package stage implements the actor state store: the single source of
// truth for every actor's observable state. All mutations go through
// Store.Update (or the editor helpers built on it), and every applied
// change is published to subscribers as an Event.
package stage

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/core"
)

var (
	ErrActorNotFound = errors.New("stage: actor not found")
	ErrActorBusy     = errors.New("stage: actor is running")
)

// Event describes one applied update.
type Event struct {
	Seq     uint64 // Position in the store's update order, starting at 1
	ActorID ActorID
	Changed Field
	Actor   Actor // State after the update
}

// Listener receives events. Listeners run synchronously on the goroutine
// that applied the update and must not call back into the store's mutating
// methods; forward the event to a channel instead.
type Listener func(Event)

// Store holds all actors on one stage.
type Store struct {
	cfg     core.RuntimeConfig
	bounds  core.Bounds
	catalog *blocks.Catalog

	mu       sync.RWMutex
	actors   map[ActorID]*Actor
	nextID   ActorID
	selected ActorID
	rng      *rand.Rand
	seq      uint64 // Last event sequence number handed out

	// deliverMu keeps listener calls in the order updates were applied.
	// It is taken before mu is released.
	deliverMu sync.Mutex

	subsMu    sync.RWMutex
	listeners map[int]Listener
	nextSub   int
}

// New creates an empty store. Call Init to seed the default actor.
// A nil catalog means the builtin one.
func New(cfg core.RuntimeConfig, cat *blocks.Catalog) *Store {
	if cat == nil {
		cat = blocks.Builtin()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Store{
		cfg:       cfg,
		bounds:    cfg.Bounds(),
		catalog:   cat,
		actors:    make(map[ActorID]*Actor),
		rng:       rand.New(rand.NewSource(seed)),
		listeners: make(map[int]Listener),
	}
}

// Catalog returns the block catalog editor operations validate against.
func (s *Store) Catalog() *blocks.Catalog {
	return s.catalog
}

// Bounds returns the stage rectangle.
func (s *Store) Bounds() core.Bounds {
	return s.bounds
}

// Subscribe registers a listener for all future events.
// The returned function removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.listeners, id)
			s.subsMu.Unlock()
		})
	}
}

// Init resets the store and adds the default actor.
func (s *Store) Init() Actor {
	s.Reset()
	return s.Spawn(Actor{
		Name:     "Sprite1",
		Position: core.Vec{X: 100, Y: 100},
		Size:     DefaultSize,
		Color:    DefaultColor,
	})
}

// Reset removes every actor. Subscribers get a deleted event per actor.
func (s *Store) Reset() {
	s.mu.Lock()
	events := make([]Event, 0, len(s.actors))
	for _, id := range s.sortedIDsLocked() {
		events = append(events, Event{ActorID: id, Changed: FieldDeleted, Actor: s.actors[id].snapshot()})
	}
	s.actors = make(map[ActorID]*Actor)
	s.nextID = 0
	s.selected = 0
	s.publishAndUnlock(events...)
}

// Spawn adds an actor built from tpl. The id is assigned by the store; an
// empty name becomes "Sprite{id}" and a zero size becomes DefaultSize.
func (s *Store) Spawn(tpl Actor) Actor {
	s.mu.Lock()
	s.nextID++
	a := &Actor{
		ID:   s.nextID,
		Step: NoStep,
	}
	if tpl.Name == "" {
		tpl.Name = fmt.Sprintf("Sprite%d", a.ID)
	}
	if tpl.Size == 0 {
		tpl.Size = DefaultSize
	}
	Patch{}.
		WithName(tpl.Name).
		WithSize(tpl.Size).
		WithPosition(tpl.Position).
		WithHeading(tpl.Heading).
		WithColor(tpl.Color).
		WithProgram(tpl.Program).
		apply(a, s.bounds)

	s.actors[a.ID] = a
	if s.selected == 0 {
		s.selected = a.ID
	}
	snap := a.snapshot()
	s.publishAndUnlock(Event{ActorID: a.ID, Changed: FieldCreated, Actor: snap})
	return snap
}

// AddActor adds an actor at a random spot with a random palette color,
// and selects it.
func (s *Store) AddActor() Actor {
	s.mu.Lock()
	pos := core.Vec{
		X: 50 + s.rng.Float64()*300,
		Y: 50 + s.rng.Float64()*200,
	}
	color := core.Palette[s.rng.Intn(len(core.Palette))]
	s.mu.Unlock()

	a := s.Spawn(Actor{Position: pos, Color: color})
	_ = s.SelectActor(a.ID)
	return a
}

// DeleteActor removes an idle actor.
func (s *Store) DeleteActor(id ActorID) error {
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

	delete(s.actors, id)
	if s.selected == id {
		s.selected = 0
		if ids := s.sortedIDsLocked(); len(ids) > 0 {
			s.selected = ids[0]
		}
	}
	s.publishAndUnlock(Event{ActorID: id, Changed: FieldDeleted, Actor: a.snapshot()})
	return nil
}

// SelectActor makes id the actor editor operations default to.
func (s *Store) SelectActor(id ActorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.actors[id]; !ok {
		return fmt.Errorf("%w: %d", ErrActorNotFound, id)
	}
	s.selected = id
	return nil
}

// Selected returns the selected actor id, or 0 when the stage is empty.
func (s *Store) Selected() ActorID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Actor returns a snapshot of one actor.
func (s *Store) Actor(id ActorID) (Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.actors[id]
	if !ok {
		return Actor{}, false
	}
	return a.snapshot(), true
}

// Actors returns snapshots of every actor in ascending id order.
func (s *Store) Actors() []Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actorsLocked()
}

// Snapshot returns every actor together with the sequence number of the
// last event already reflected in them. Events with a higher Seq happened
// after the snapshot.
func (s *Store) Snapshot() ([]Actor, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actorsLocked(), s.seq
}

func (s *Store) actorsLocked() []Actor {
	ids := s.sortedIDsLocked()
	out := make([]Actor, len(ids))
	for i, id := range ids {
		out[i] = s.actors[id].snapshot()
	}
	return out
}

// IDs returns every actor id in ascending order.
func (s *Store) IDs() []ActorID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedIDsLocked()
}

// Len returns the number of actors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actors)
}

// Update merges a partial update into an actor (last write wins per field)
// and publishes the result. Updates that change nothing publish nothing.
func (s *Store) Update(id ActorID, p Patch) (Actor, error) {
	s.mu.Lock()
	a, ok := s.actors[id]
	if !ok {
		s.mu.Unlock()
		return Actor{}, fmt.Errorf("%w: %d", ErrActorNotFound, id)
	}

	changed := p.apply(a, s.bounds)
	snap := a.snapshot()
	if changed == 0 {
		s.mu.Unlock()
		return snap, nil
	}
	s.publishAndUnlock(Event{ActorID: id, Changed: changed, Actor: snap})
	return snap, nil
}

// AppendTrail adds one point to an actor's trail.
func (s *Store) AppendTrail(id ActorID, pt core.Vec) error {
	_, err := s.Update(id, Patch{}.WithTrail(pt))
	return err
}

func (s *Store) sortedIDsLocked() []ActorID {
	ids := make([]ActorID, 0, len(s.actors))
	for id := range s.actors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// publishAndUnlock releases mu and delivers events to every listener.
// Must be called with mu held.
func (s *Store) publishAndUnlock(events ...Event) {
	for i := range events {
		s.seq++
		events[i].Seq = s.seq
	}
	s.deliverMu.Lock()
	s.mu.Unlock()
	defer s.deliverMu.Unlock()

	if len(events) == 0 {
		return
	}

	s.subsMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.subsMu.RUnlock()

	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}
