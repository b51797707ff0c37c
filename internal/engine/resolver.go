package engine

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

type pair struct {
	a, b stage.ActorID // a < b
}

// Collision is one honoured program swap.
type Collision struct {
	A, B stage.ActorID
}

// Resolver detects new overlaps between actors and swaps the programs of
// the two actors involved. Detection is edge-triggered: a pair only
// collides again after it has separated.
type Resolver struct {
	store  *stage.Store
	logger *log.Logger

	seen  map[pair]bool // Pairs overlapping on the previous pass
	total int
}

// NewResolver creates a resolver over the store's actors.
func NewResolver(store *stage.Store, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = discardLogger()
	}
	return &Resolver{
		store:  store,
		logger: logger,
		seen:   make(map[pair]bool),
	}
}

// Reset forgets which pairs were overlapping.
func (r *Resolver) Reset() {
	r.seen = make(map[pair]bool)
	r.total = 0
}

// Total returns the number of swaps since the last Reset.
func (r *Resolver) Total() int {
	return r.total
}

// Resolve runs one collision pass over fresh actor state. Pairs are
// visited in ascending id order and each actor takes part in at most one
// swap per pass; a later new pair involving an already swapped actor is
// recorded as overlapping without being honoured.
func (r *Resolver) Resolve() []Collision {
	actors := r.store.Actors()
	overlapping := make(map[pair]bool)
	swapped := make(map[stage.ActorID]bool)
	var out []Collision

	for i := range actors {
		for j := i + 1; j < len(actors); j++ {
			a, b := actors[i], actors[j]
			if !a.Overlaps(b) {
				continue
			}

			p := pair{a.ID, b.ID}
			overlapping[p] = true
			if r.seen[p] || swapped[a.ID] || swapped[b.ID] {
				continue
			}

			r.swap(a, b)
			swapped[a.ID] = true
			swapped[b.ID] = true
			out = append(out, Collision{A: a.ID, B: b.ID})
		}
	}

	r.seen = overlapping
	r.total += len(out)
	return out
}

// swap writes independent copies of each program to the other actor.
func (r *Resolver) swap(a, b stage.Actor) {
	progA := a.Program.Clone()
	progB := b.Program.Clone()

	if _, err := r.store.Update(a.ID, stage.Patch{}.WithProgram(progB)); err != nil {
		r.logger.Warn("swap failed", "actor", a.ID, "err", err)
	}
	if _, err := r.store.Update(b.ID, stage.Patch{}.WithProgram(progA)); err != nil {
		r.logger.Warn("swap failed", "actor", b.ID, "err", err)
	}
	r.logger.Info("collision", "a", a.String(), "b", b.String())
}
