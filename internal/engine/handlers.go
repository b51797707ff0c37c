package engine

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-blockstage/internal/blocks"
	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/program"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// Call is everything a handler may use to execute one block.
type Call struct {
	Actor  stage.Actor // Fresh snapshot taken right before dispatch
	Block  *program.Block
	Inputs blocks.Inputs
	Bounds core.Bounds
	Timing Timing

	apply func(stage.Patch)
}

// Apply writes a partial update to the executing actor.
func (c *Call) Apply(p stage.Patch) {
	c.apply(p)
}

// Handler executes a non-container block. It applies any immediate effect
// through c.Apply and returns an Activity for time-extended work, or nil
// when the block is already complete.
type Handler func(c *Call) Activity

// LoopCount returns how many times a container runs its body.
type LoopCount func(in blocks.Inputs) int

// Handlers maps block type ids to their behavior.
type Handlers struct {
	mu      sync.RWMutex
	actions map[string]Handler
	loops   map[string]LoopCount
}

// NewHandlers creates an empty handler registry.
func NewHandlers() *Handlers {
	return &Handlers{
		actions: make(map[string]Handler),
		loops:   make(map[string]LoopCount),
	}
}

// Register adds the handler for a non-container block type.
func (h *Handlers) Register(typeID string, fn Handler) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.registeredLocked(typeID) {
		return fmt.Errorf("engine: handler for %q already registered", typeID)
	}
	h.actions[typeID] = fn
	return nil
}

// RegisterLoop adds a container block type.
func (h *Handlers) RegisterLoop(typeID string, fn LoopCount) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.registeredLocked(typeID) {
		return fmt.Errorf("engine: handler for %q already registered", typeID)
	}
	h.loops[typeID] = fn
	return nil
}

func (h *Handlers) registeredLocked(typeID string) bool {
	_, a := h.actions[typeID]
	_, l := h.loops[typeID]
	return a || l
}

func (h *Handlers) action(typeID string) (Handler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.actions[typeID]
	return fn, ok
}

func (h *Handlers) loop(typeID string) (LoopCount, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.loops[typeID]
	return fn, ok
}

// NewBuiltinHandlers returns a registry with behavior for every builtin
// block type.
func NewBuiltinHandlers() *Handlers {
	h := NewHandlers()
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(h.Register(blocks.TypeMove, moveHandler))
	must(h.Register(blocks.TypeTurn, turnHandler))
	must(h.Register(blocks.TypeGoto, gotoHandler))
	must(h.Register(blocks.TypeWait, waitHandler))
	must(h.Register(blocks.TypeSay, speechHandler(false)))
	must(h.Register(blocks.TypeThink, speechHandler(true)))
	must(h.Register(blocks.TypeChangeSize, changeSizeHandler))
	must(h.Register(blocks.TypeSetColor, setColorHandler))
	must(h.RegisterLoop(blocks.TypeRepeat, func(in blocks.Inputs) int {
		return in.Int("times")
	}))

	return h
}
