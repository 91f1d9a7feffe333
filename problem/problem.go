// Package problem defines what a search strategy needs to know about the
// search space: where to start, where to stop and how states connect.
//
// Implementations must be read-only while a search runs; independent runs may
// share one problem concurrently.
package problem

import "github.com/pdrpinto/hipster/node"

// Problem is the minimum needed by uninformed strategies such as DFS.
type Problem[StateType comparable] interface {
	Origin() StateType
	Goal() StateType
	Successors(state StateType) ([]node.Transition[StateType], error)
}

// Informed adds a cost function over transitions.
type Informed[StateType comparable, CostType any] interface {
	Problem[StateType]
	Cost(transition node.Transition[StateType]) CostType
}

// Heuristic adds an estimate of the remaining cost from a state to the goal.
type Heuristic[StateType comparable, CostType any] interface {
	Informed[StateType, CostType]
	Estimate(state StateType) CostType
}

// Funcs builds a problem from plain functions. CostFunc and EstimateFunc are
// optional; without them Cost and Estimate return the zero value.
type Funcs[StateType comparable, CostType any] struct {
	OriginState    StateType
	GoalState      StateType
	SuccessorsFunc func(state StateType) ([]node.Transition[StateType], error)
	CostFunc       func(transition node.Transition[StateType]) CostType
	EstimateFunc   func(state StateType) CostType
}

func (f Funcs[StateType, CostType]) Origin() StateType { return f.OriginState }
func (f Funcs[StateType, CostType]) Goal() StateType   { return f.GoalState }

func (f Funcs[StateType, CostType]) Successors(state StateType) ([]node.Transition[StateType], error) {
	return f.SuccessorsFunc(state)
}

func (f Funcs[StateType, CostType]) Cost(transition node.Transition[StateType]) CostType {
	var zero CostType
	if f.CostFunc == nil {
		return zero
	}
	return f.CostFunc(transition)
}

func (f Funcs[StateType, CostType]) Estimate(state StateType) CostType {
	var zero CostType
	if f.EstimateFunc == nil {
		return zero
	}
	return f.EstimateFunc(state)
}

// WithoutHeuristic turns an informed problem into a heuristic one whose
// estimate is always identity. Dijkstra is A* over such a problem.
func WithoutHeuristic[StateType comparable, CostType any](
	problem Informed[StateType, CostType],
	identity CostType,
) Heuristic[StateType, CostType] {
	return blind[StateType, CostType]{Informed: problem, identity: identity}
}

type blind[StateType comparable, CostType any] struct {
	Informed[StateType, CostType]
	identity CostType
}

func (b blind[StateType, CostType]) Estimate(StateType) CostType { return b.identity }
