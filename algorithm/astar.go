// Package algorithm holds the expansion strategies shipped with hipster.
//
// Every strategy is an iterator with a single method,
//
//	Next() (*node.Node[StateType, CostType], bool, error)
//
// returning one closed expansion per call. ok == false with a nil error means
// the reachable space is exhausted. A strategy instance is single use; build a
// new one per run.
package algorithm

import (
	"github.com/pdrpinto/hipster/cost"
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

// AStar expands nodes best-first by f = g (+) h.
type AStar[StateType comparable, CostType any] struct {
	problem problem.Heuristic[StateType, CostType]
	algebra cost.Algebra[CostType]

	arena   *node.Arena[StateType, CostType]
	openSet *node.Frontier[StateType, CostType]
	closed  map[StateType]bool

	// pending is the last returned node; its successors are generated on the
	// following call so that a consumer stopping at the goal never pays for it.
	pending *node.Node[StateType, CostType]
	started bool
	err     error
}

// NewAStar creates an A* iterator over problem.
func NewAStar[StateType comparable, CostType any](
	searchProblem problem.Heuristic[StateType, CostType],
	algebra cost.Algebra[CostType],
) *AStar[StateType, CostType] {
	return &AStar[StateType, CostType]{
		problem: searchProblem,
		algebra: algebra,
		arena:   node.NewArena[StateType](algebra),
		openSet: node.NewFrontier(node.ByPriority[StateType](algebra)),
		closed:  make(map[StateType]bool),
	}
}

// NewDijkstra creates an A* iterator whose heuristic is always the algebra identity.
func NewDijkstra[StateType comparable, CostType any](
	searchProblem problem.Informed[StateType, CostType],
	algebra cost.Algebra[CostType],
) *AStar[StateType, CostType] {
	return NewAStar(problem.WithoutHeuristic(searchProblem, algebra.Identity()), algebra)
}

// Next returns the next closed node in order of increasing f.
func (a *AStar[StateType, CostType]) Next() (*node.Node[StateType, CostType], bool, error) {
	if a.err != nil {
		return nil, false, a.err
	}
	if !a.started {
		a.started = true
		origin := a.problem.Origin()
		start, err := a.arena.NewHeuristic(origin, node.Origin(origin), node.NoParent,
			a.algebra.Identity(), a.problem.Estimate(origin))
		if err != nil {
			return a.fail(err)
		}
		a.openSet.Push(start)
	}
	if a.pending != nil {
		if err := a.expand(a.pending); err != nil {
			return a.fail(err)
		}
		a.pending = nil
	}

	current, ok := a.openSet.Pop()
	if !ok {
		return nil, false, nil
	}
	a.closed[current.State()] = true
	a.pending = current
	return current, true, nil
}

func (a *AStar[StateType, CostType]) expand(current *node.Node[StateType, CostType]) error {
	transitions, err := a.problem.Successors(current.State())
	if err != nil {
		return err
	}
	for _, transition := range transitions {
		successor := transition.To()
		if a.closed[successor] {
			continue
		}
		tentativeG := a.algebra.Combine(current.G(), a.problem.Cost(transition))
		if queued, inOpen := a.openSet.Lookup(successor); inOpen && !cost.Less(a.algebra, tentativeG, queued.G()) {
			continue
		}
		child, err := a.arena.NewHeuristic(successor, transition, current.Handle(),
			tentativeG, a.problem.Estimate(successor))
		if err != nil {
			return err
		}
		a.openSet.Push(child)
	}
	return nil
}

// Frontier exposes the open set for instrumentation. Callers must not modify it.
func (a *AStar[StateType, CostType]) Frontier() []*node.Node[StateType, CostType] {
	return a.openSet.Nodes()
}

func (a *AStar[StateType, CostType]) fail(err error) (*node.Node[StateType, CostType], bool, error) {
	a.err = err
	return nil, false, err
}
