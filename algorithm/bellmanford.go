package algorithm

import (
	"errors"
	"fmt"

	"github.com/pdrpinto/hipster/cost"
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

// ErrNegativeCycle is returned when relaxation finds a cycle of negative cost
// reachable from the origin.
var ErrNegativeCycle = errors.New("negative cycle reachable from origin")

// BellmanFord relaxes edges with a FIFO work queue until no cost improves,
// then emits one cost node per reachable state in discovery order.
//
// Relaxation runs entirely inside the first call to Next. Emitting only settled
// nodes keeps the sequence monotone: no state is emitted twice and the goal node
// carries its optimal cost even with negative edges.
type BellmanFord[StateType comparable, CostType any] struct {
	problem problem.Informed[StateType, CostType]
	algebra cost.Algebra[CostType]
	arena   *node.Arena[StateType, CostType]

	best  map[StateType]*node.Node[StateType, CostType]
	depth map[StateType]int
	order []StateType

	relaxations int
	relaxed     bool
	emitted     int
	err         error
}

// NewBellmanFord creates a Bellman-Ford iterator over problem.
func NewBellmanFord[StateType comparable, CostType any](
	searchProblem problem.Informed[StateType, CostType],
	algebra cost.Algebra[CostType],
) *BellmanFord[StateType, CostType] {
	return &BellmanFord[StateType, CostType]{
		problem: searchProblem,
		algebra: algebra,
		arena:   node.NewArena[StateType](algebra),
		best:    make(map[StateType]*node.Node[StateType, CostType]),
		depth:   make(map[StateType]int),
	}
}

func (b *BellmanFord[StateType, CostType]) Next() (*node.Node[StateType, CostType], bool, error) {
	if b.err != nil {
		return nil, false, b.err
	}
	if !b.relaxed {
		if err := b.relax(); err != nil {
			b.err = err
			return nil, false, err
		}
		b.relaxed = true
	}
	if b.emitted >= len(b.order) {
		return nil, false, nil
	}
	settled := b.best[b.order[b.emitted]]
	b.emitted++
	return settled, true, nil
}

// Relaxations returns how many cost improvements were applied.
func (b *BellmanFord[StateType, CostType]) Relaxations() int { return b.relaxations }

func (b *BellmanFord[StateType, CostType]) relax() error {
	origin := b.problem.Origin()
	start, err := b.arena.NewCost(origin, node.Origin(origin), node.NoParent, b.algebra.Identity())
	if err != nil {
		return err
	}
	b.best[origin] = start
	b.order = append(b.order, origin)

	queue := []StateType{origin}
	inQueue := map[StateType]bool{origin: true}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		inQueue[state] = false

		current := b.best[state]
		transitions, err := b.problem.Successors(state)
		if err != nil {
			return err
		}
		for _, transition := range transitions {
			successor := transition.To()
			tentativeG := b.algebra.Combine(current.G(), b.problem.Cost(transition))
			known, exists := b.best[successor]
			if exists && !cost.Less(b.algebra, tentativeG, known.G()) {
				continue
			}
			// a best path longer than the number of known states repeats a
			// state, and only a negative cycle can make such a path improve
			if b.depth[state]+1 >= len(b.best)+boolToInt(!exists) {
				return fmt.Errorf("%w: through %v", ErrNegativeCycle, successor)
			}
			improved, err := b.arena.NewCost(successor, transition, current.Handle(), tentativeG)
			if err != nil {
				return err
			}
			if !exists {
				b.order = append(b.order, successor)
			}
			b.best[successor] = improved
			b.depth[successor] = b.depth[state] + 1
			b.relaxations++
			if !inQueue[successor] {
				queue = append(queue, successor)
				inQueue[successor] = true
			}
		}
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
