package engine

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/program"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// State is an engine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// frame is one level of the execution stack. The bottom frame walks the
// actor's program as stored; loop frames walk the body captured when the
// container started.
type frame struct {
	body  program.Program // nil for the top-level frame
	pos   int
	iter  int
	times int
}

func (f *frame) topLevel() bool {
	return f.body == nil
}

// env is what an engine shares with the runtime that owns it.
type env struct {
	store    *stage.Store
	handlers *Handlers
	timing   Timing
	logger   *log.Logger
	collide  func() // Collision pass; may be nil
}

// Engine executes one actor's program.
type Engine struct {
	id  stage.ActorID
	env *env
	log *log.Logger

	state    State
	frames   []*frame
	activity Activity
	step     int // Last step index published to the store

	started time.Time
	steps   int // Top-level steps dispatched
	execs   int // Blocks dispatched at any depth
}

func newEngine(id stage.ActorID, e *env) *Engine {
	return &Engine{
		id:   id,
		env:  e,
		log:  e.logger.With("actor", id),
		step: stage.NoStep,
	}
}

// ActorID returns the actor this engine drives.
func (e *Engine) ActorID() stage.ActorID {
	return e.id
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Running reports whether the engine has work left.
func (e *Engine) Running() bool {
	return e.state == StateRunning
}

// start marks the actor as running at step 0. It is a no-op unless idle.
func (e *Engine) start() bool {
	if e.state == StateRunning {
		return false
	}

	if _, err := e.env.store.Update(e.id, stage.Patch{}.WithRunning(true).WithStep(0)); err != nil {
		e.log.Warn("cannot start", "err", err)
		return false
	}

	e.state = StateRunning
	e.frames = []*frame{{}}
	e.activity = nil
	e.step = 0
	e.steps = 0
	e.execs = 0
	e.started = time.Now()
	return true
}

// cancel drops in-flight work and returns the actor to idle. Pending
// speech is cleared.
func (e *Engine) cancel() {
	if e.state != StateRunning {
		return
	}
	e.activity = nil
	e.frames = nil
	e.state = StateCancelled
	e.finish(stage.Patch{}.WithMessage("", false))
	e.log.Debug("cancelled", "steps", e.steps)
}

func (e *Engine) complete() {
	e.frames = nil
	e.state = StateCompleted
	e.finish(stage.Patch{})
	e.log.Debug("completed", "steps", e.steps, "blocks", e.execs)
}

func (e *Engine) finish(p stage.Patch) {
	e.step = stage.NoStep
	p = p.WithRunning(false).WithStep(stage.NoStep)
	if _, err := e.env.store.Update(e.id, p); err != nil && !errors.Is(err, stage.ErrActorNotFound) {
		e.log.Warn("cannot finish", "err", err)
	}
}

// reset moves a finished engine back to idle.
func (e *Engine) reset() {
	if e.state != StateRunning {
		e.state = StateIdle
	}
}

// tick advances the engine by dt. At most budget blocks are dispatched;
// once the budget is spent the engine yields until the next tick.
func (e *Engine) tick(dt time.Duration, budget int) {
	if e.state != StateRunning {
		return
	}

	if e.activity != nil {
		if !e.activity.Advance(dt) {
			return
		}
		e.activity = nil
		e.settle()
	}

	for n := 0; n < budget && e.state == StateRunning; n++ {
		act, done := e.dispatchNext()
		if done {
			e.complete()
			return
		}
		if act != nil {
			e.activity = act
			return
		}
	}
}

// dispatchNext executes the block at the current position. It returns the
// block's activity, or done when the program has no more steps.
func (e *Engine) dispatchNext() (act Activity, done bool) {
	f := e.frames[len(e.frames)-1]

	var b *program.Block
	if f.topLevel() {
		// Re-read so a program swapped in by a collision takes effect here
		a, ok := e.env.store.Actor(e.id)
		if !ok || f.pos >= a.Program.Len() {
			return nil, true
		}
		if f.pos != e.step {
			if _, err := e.env.store.Update(e.id, stage.Patch{}.WithStep(f.pos)); err != nil {
				return nil, true
			}
			e.step = f.pos
		}
		b = a.Program[f.pos]
		e.steps++
	} else {
		b = f.body[f.pos]
	}
	e.execs++

	bt, err := e.env.store.Catalog().Lookup(b.Type)
	if err != nil {
		e.log.Warn("skipping block", "block", b.Type, "err", err)
		e.settle()
		return nil, false
	}

	in, substituted := blocks.Resolve(bt, b.Inputs)
	if len(substituted) > 0 {
		e.log.Debug("input replaced by default", "block", b.Type, "inputs", substituted)
	}

	if bt.Container {
		count, ok := e.env.handlers.loop(b.Type)
		if !ok {
			e.log.Warn("no handler for container", "block", b.Type)
			e.settle()
			return nil, false
		}
		times := count(in)
		if times <= 0 || len(b.Children) == 0 {
			e.settle()
			return nil, false
		}
		e.frames = append(e.frames, &frame{body: b.Children, times: times})
		return nil, false
	}

	h, ok := e.env.handlers.action(b.Type)
	if !ok {
		e.log.Warn("no handler for block", "block", b.Type)
		e.settle()
		return nil, false
	}

	actor, ok := e.env.store.Actor(e.id)
	if !ok {
		return nil, true
	}
	c := &Call{
		Actor:  actor,
		Block:  b,
		Inputs: in,
		Bounds: e.env.store.Bounds(),
		Timing: e.env.timing,
		apply:  e.apply,
	}
	act = h(c)
	if act == nil {
		e.settle()
	}
	return act, false
}

func (e *Engine) apply(p stage.Patch) {
	if _, err := e.env.store.Update(e.id, p); err != nil {
		e.log.Warn("update failed", "err", err)
	}
}

// settle records that the block at the current position finished and
// moves to the next one, unwinding finished loop iterations.
func (e *Engine) settle() {
	for len(e.frames) > 0 {
		f := e.frames[len(e.frames)-1]
		f.pos++

		if f.topLevel() {
			e.resolveCollisions()
			return
		}
		if f.pos < len(f.body) {
			return
		}

		f.iter++
		f.pos = 0
		e.resolveCollisions()
		if f.iter < f.times {
			return
		}

		// Loop done; the container itself settles in the parent frame
		e.frames = e.frames[:len(e.frames)-1]
	}
}

func (e *Engine) resolveCollisions() {
	if e.env.collide != nil {
		e.env.collide()
	}
}
