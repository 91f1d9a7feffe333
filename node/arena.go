package node

import (
	"fmt"

	"github.com/pdrpinto/hipster/cost"
	"github.com/pdrpinto/hipster/internal/chain"
)

// Arena owns the nodes built during one search run.
//
// Every cost-carrying node is computed with the arena's algebra; nodes of
// different arenas are not comparable. An Arena is not safe for concurrent use.
type Arena[StateType comparable, CostType any] struct {
	algebra cost.Algebra[CostType]
	nodes   []*Node[StateType, CostType]
}

// NewArena creates an empty arena. algebra may be nil when only plain nodes are built.
func NewArena[StateType comparable, CostType any](algebra cost.Algebra[CostType]) *Arena[StateType, CostType] {
	return &Arena[StateType, CostType]{algebra: algebra}
}

func (a *Arena[StateType, CostType]) Algebra() cost.Algebra[CostType] { return a.algebra }

// Len returns the number of nodes created so far.
func (a *Arena[StateType, CostType]) Len() int { return len(a.nodes) }

// Get resolves a handle.
func (a *Arena[StateType, CostType]) Get(handle Handle) (*Node[StateType, CostType], bool) {
	if handle < 0 || int(handle) >= len(a.nodes) {
		return nil, false
	}
	return a.nodes[handle], true
}

// New builds a plain node.
func (a *Arena[StateType, CostType]) New(
	state StateType,
	transition Transition[StateType],
	parent Handle,
) (*Node[StateType, CostType], error) {
	if transition.To() != state {
		return nil, fmt.Errorf("%w: state %v, transition %v", ErrInvalidTransition, state, transition)
	}
	if parent != NoParent {
		if _, ok := a.Get(parent); !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownParent, parent)
		}
	}
	n := &Node[StateType, CostType]{
		arena:      a,
		handle:     Handle(len(a.nodes)),
		parent:     parent,
		state:      state,
		transition: transition,
	}
	a.nodes = append(a.nodes, n)
	return n, nil
}

// NewCost builds a node carrying the accumulated cost g.
func (a *Arena[StateType, CostType]) NewCost(
	state StateType,
	transition Transition[StateType],
	parent Handle,
	g CostType,
) (*Node[StateType, CostType], error) {
	n, err := a.New(state, transition, parent)
	if err != nil {
		return nil, err
	}
	n.capabilities = Cost
	n.g = g
	return n, nil
}

// NewHeuristic builds a node with g, h and f = g (+) h.
func (a *Arena[StateType, CostType]) NewHeuristic(
	state StateType,
	transition Transition[StateType],
	parent Handle,
	g, h CostType,
) (*Node[StateType, CostType], error) {
	n, err := a.NewCost(state, transition, parent, g)
	if err != nil {
		return nil, err
	}
	n.capabilities |= Heuristic
	n.h = h
	n.f = a.algebra.Combine(g, h)
	return n, nil
}

// NewADStar builds a node with g, rhs, h and the key
// (min(g,rhs) (+) scale(h, epsilon), min(g,rhs)).
func (a *Arena[StateType, CostType]) NewADStar(
	state StateType,
	transition Transition[StateType],
	parent Handle,
	g, rhs, h CostType,
	epsilon float64,
) (*Node[StateType, CostType], error) {
	n, err := a.NewCost(state, transition, parent, g)
	if err != nil {
		return nil, err
	}
	n.capabilities |= Heuristic | Lookahead
	n.h = h
	n.rhs = rhs
	n.key = KeyFor(a.algebra, g, rhs, h, epsilon)
	n.f = n.key.Primary
	return n, nil
}

// KeyFor computes an AD* key without building a node.
func KeyFor[CostType any](algebra cost.Algebra[CostType], g, rhs, h CostType, epsilon float64) Key[CostType] {
	best := cost.Min(algebra, g, rhs)
	return Key[CostType]{
		Primary:   algebra.Combine(best, algebra.Scale(h, epsilon)),
		Secondary: best,
	}
}

// Path walks back-references from n to the origin and returns the nodes in
// chronological order.
func Path[StateType comparable, CostType any](n *Node[StateType, CostType]) []*Node[StateType, CostType] {
	if n == nil {
		return nil
	}
	return chain.Walk(n, (*Node[StateType, CostType]).Parent)
}

// StatesFrom projects each node of path onto its transition target.
func StatesFrom[StateType comparable, CostType any](path []*Node[StateType, CostType]) []StateType {
	states := make([]StateType, 0, len(path))
	for _, n := range path {
		states = append(states, n.Transition().To())
	}
	return states
}
