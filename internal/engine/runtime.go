// Package engine executes actor programs. A Runtime owns one Engine per
// actor and advances them together on a fixed tick; handlers turn blocks
// into timed updates of the stage store, and a Resolver swaps programs
// between colliding actors.
package engine

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// DefaultMaxDispatchPerTick bounds how many blocks one engine may execute
// in a single tick.
const DefaultMaxDispatchPerTick = 1000

// Outcome is how a play session ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

// RunSummary describes a finished play session.
type RunSummary struct {
	Outcome    Outcome
	StartedAt  time.Time
	Duration   time.Duration
	Actors     int // Actors that ran
	Steps      int // Top-level steps across all actors
	Blocks     int // Blocks executed at any depth
	Collisions int
	Final      []stage.Actor // Stage state when the session ended
}

// RunRecorder persists run summaries.
// This lets the runtime record runs without depending on the storage package.
type RunRecorder interface {
	RecordRun(s RunSummary) error
}

// Options configures a Runtime.
type Options struct {
	Handlers           *Handlers // nil means NewBuiltinHandlers
	Timing             Timing    // Zero value means DefaultTiming
	TickRate           int       // Ticks per second for Run; default 60
	MaxDispatchPerTick int       // Default DefaultMaxDispatchPerTick
	DisableCollisions  bool
	Logger             *log.Logger
	Recorder           RunRecorder // Optional
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// session tracks one PlayAll..idle span.
type session struct {
	startedAt time.Time
	actors    map[stage.ActorID]bool
	steps     int
	blocks    int
}

// Runtime coordinates every engine on one stage. Tick, PlayAll and StopAll
// are serialized, so engines never interleave within a tick. Store
// listeners are called with the runtime lock held and must not call back
// into the Runtime.
type Runtime struct {
	store    *stage.Store
	opts     Options
	resolver *Resolver
	env      *env
	logger   *log.Logger

	mu      sync.Mutex
	engines map[stage.ActorID]*Engine
	session *session
	ticks   uint64
}

// NewRuntime creates a runtime for the store.
func NewRuntime(store *stage.Store, opts Options) *Runtime {
	if opts.Handlers == nil {
		opts.Handlers = NewBuiltinHandlers()
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.MaxDispatchPerTick <= 0 {
		opts.MaxDispatchPerTick = DefaultMaxDispatchPerTick
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	rt := &Runtime{
		store:    store,
		opts:     opts,
		resolver: NewResolver(store, opts.Logger),
		logger:   opts.Logger,
		engines:  make(map[stage.ActorID]*Engine),
	}
	rt.env = &env{
		store:    store,
		handlers: opts.Handlers,
		timing:   opts.Timing,
		logger:   opts.Logger,
	}
	if !opts.DisableCollisions {
		rt.env.collide = func() { rt.resolver.Resolve() }
	}
	return rt
}

// Store returns the stage the runtime drives.
func (rt *Runtime) Store() *stage.Store {
	return rt.store
}

// TickInterval returns the wall time between ticks in Run.
func (rt *Runtime) TickInterval() time.Duration {
	return time.Second / time.Duration(rt.opts.TickRate)
}

// PlayAll starts an engine for every idle actor with a non-empty program.
// Actors that are already running are left alone. It returns how many
// engines were started.
func (rt *Runtime) PlayAll() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.pruneLocked()

	started := 0
	for _, a := range rt.store.Actors() {
		if a.Program.Len() == 0 {
			continue
		}
		e, ok := rt.engines[a.ID]
		if !ok {
			e = newEngine(a.ID, rt.env)
			rt.engines[a.ID] = e
		}
		if e.Running() {
			continue
		}
		if rt.session == nil {
			rt.session = &session{startedAt: time.Now(), actors: make(map[stage.ActorID]bool)}
			rt.resolver.Reset()
		}
		e.reset()
		if e.start() {
			rt.session.actors[a.ID] = true
			started++
		}
	}

	if started > 0 {
		rt.logger.Info("play", "started", started)
	}
	return started
}

// StopAll cancels every running engine. When it returns, no further
// update from in-flight work will reach the store. Calling it while
// nothing runs does nothing.
func (rt *Runtime) StopAll() {
	rt.mu.Lock()
	stopped := 0
	for _, id := range rt.sortedIDsLocked() {
		e := rt.engines[id]
		if e.Running() {
			e.cancel()
			rt.collectLocked(e)
			stopped++
		}
		e.reset()
	}
	summary := rt.endSessionLocked(OutcomeCancelled)
	rt.mu.Unlock()

	if stopped > 0 {
		rt.logger.Info("stop", "cancelled", stopped)
	}
	rt.record(summary)
}

// Playing reports whether any engine is running.
func (rt *Runtime) Playing() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.playingLocked()
}

// Running reports whether the actor's engine is running.
func (rt *Runtime) Running(id stage.ActorID) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	e, ok := rt.engines[id]
	return ok && e.Running()
}

// Ticks returns the number of ticks processed.
func (rt *Runtime) Ticks() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.ticks
}

// Tick advances every running engine by dt, in ascending actor id.
func (rt *Runtime) Tick(dt time.Duration) {
	rt.mu.Lock()
	rt.ticks++

	for _, id := range rt.sortedIDsLocked() {
		e := rt.engines[id]
		if !e.Running() {
			continue
		}
		e.tick(dt, rt.opts.MaxDispatchPerTick)
		if !e.Running() {
			rt.collectLocked(e)
			e.reset()
		}
	}

	var summary *RunSummary
	if rt.session != nil && !rt.playingLocked() {
		summary = rt.endSessionLocked(OutcomeCompleted)
		rt.logger.Info("completed", "actors", summary.Actors, "steps", summary.Steps, "collisions", summary.Collisions)
	}
	rt.mu.Unlock()

	rt.record(summary)
}

// Run ticks at the configured rate until ctx is done. Running engines are
// stopped on return.
func (rt *Runtime) Run(ctx context.Context) error {
	interval := rt.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer rt.StopAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rt.Tick(interval)
		}
	}
}

// RunUntilIdle ticks at the configured rate until no engine is running.
// If ctx ends first, everything is stopped and ctx's error returned.
func (rt *Runtime) RunUntilIdle(ctx context.Context) error {
	interval := rt.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for rt.Playing() {
		select {
		case <-ctx.Done():
			rt.StopAll()
			return ctx.Err()
		case <-ticker.C:
			rt.Tick(interval)
		}
	}
	return nil
}

func (rt *Runtime) playingLocked() bool {
	for _, e := range rt.engines {
		if e.Running() {
			return true
		}
	}
	return false
}

// pruneLocked drops engines whose actor no longer exists.
func (rt *Runtime) pruneLocked() {
	for id, e := range rt.engines {
		if e.Running() {
			continue
		}
		if _, ok := rt.store.Actor(id); !ok {
			delete(rt.engines, id)
		}
	}
}

func (rt *Runtime) sortedIDsLocked() []stage.ActorID {
	ids := make([]stage.ActorID, 0, len(rt.engines))
	for id := range rt.engines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// collectLocked folds a finished engine's counters into the session.
func (rt *Runtime) collectLocked(e *Engine) {
	if rt.session == nil {
		return
	}
	rt.session.steps += e.steps
	rt.session.blocks += e.execs
}

func (rt *Runtime) endSessionLocked(outcome Outcome) *RunSummary {
	s := rt.session
	if s == nil {
		return nil
	}
	rt.session = nil

	return &RunSummary{
		Outcome:    outcome,
		StartedAt:  s.startedAt,
		Duration:   time.Since(s.startedAt),
		Actors:     len(s.actors),
		Steps:      s.steps,
		Blocks:     s.blocks,
		Collisions: rt.resolver.Total(),
		Final:      rt.store.Actors(),
	}
}

func (rt *Runtime) record(s *RunSummary) {
	if s == nil || rt.opts.Recorder == nil {
		return
	}
	if err := rt.opts.Recorder.RecordRun(*s); err != nil {
		rt.logger.Error("failed to record run", "err", err)
	}
}
