package algorithm

import (
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

// Unweighted is the cost type of strategies that do not track costs.
type Unweighted = struct{}

type dfsFrame[StateType comparable] struct {
	current     *node.Node[StateType, Unweighted]
	successors  []node.Transition[StateType]
	nextIndex   int
	initialized bool
}

// DepthFirst visits states in depth-first order, each state at most once.
type DepthFirst[StateType comparable] struct {
	problem problem.Problem[StateType]
	arena   *node.Arena[StateType, Unweighted]
	stack   []*dfsFrame[StateType]
	visited map[StateType]bool
	started bool
	err     error
}

// NewDepthFirst creates a DFS iterator over problem.
func NewDepthFirst[StateType comparable](searchProblem problem.Problem[StateType]) *DepthFirst[StateType] {
	return &DepthFirst[StateType]{
		problem: searchProblem,
		arena:   node.NewArena[StateType, Unweighted](nil),
		visited: make(map[StateType]bool),
	}
}

func (d *DepthFirst[StateType]) Next() (*node.Node[StateType, Unweighted], bool, error) {
	if d.err != nil {
		return nil, false, d.err
	}
	if !d.started {
		d.started = true
		origin := d.problem.Origin()
		return d.visit(origin, node.Origin(origin), node.NoParent)
	}

	for len(d.stack) > 0 {
		top := d.stack[len(d.stack)-1]
		if !top.initialized {
			successors, err := d.problem.Successors(top.current.State())
			if err != nil {
				d.err = err
				return nil, false, err
			}
			top.successors = successors
			top.initialized = true
		}
		if top.nextIndex >= len(top.successors) {
			d.stack = d.stack[:len(d.stack)-1]
			continue
		}
		transition := top.successors[top.nextIndex]
		top.nextIndex++
		if d.visited[transition.To()] {
			continue
		}
		return d.visit(transition.To(), transition, top.current.Handle())
	}
	return nil, false, nil
}

func (d *DepthFirst[StateType]) visit(
	state StateType,
	transition node.Transition[StateType],
	parent node.Handle,
) (*node.Node[StateType, Unweighted], bool, error) {
	current, err := d.arena.New(state, transition, parent)
	if err != nil {
		d.err = err
		return nil, false, err
	}
	d.visited[state] = true
	d.stack = append(d.stack, &dfsFrame[StateType]{current: current})
	return current, true, nil
}
