package hipster

import (
	"github.com/pdrpinto/hipster/algorithm"
	"github.com/pdrpinto/hipster/cost"
	"github.com/pdrpinto/hipster/problem"
)

// Strategy names used by the constructors below for logs and metrics.
const (
	StrategyAStar       = "astar"
	StrategyDijkstra    = "dijkstra"
	StrategyBellmanFord = "bellman-ford"
	StrategyADStar      = "adstar"
	StrategyDepthFirst  = "dfs"
)

func named(name string, options []Option) []Option {
	return append([]Option{WithName(name)}, options...)
}

// NewAStar creates an A* search.
func NewAStar[StateType comparable, CostType any](
	searchProblem problem.Heuristic[StateType, CostType],
	algebra cost.Algebra[CostType],
	options ...Option,
) *Search[StateType, CostType] {
	factory := func() Iterator[StateType, CostType] {
		return algorithm.NewAStar(searchProblem, algebra)
	}
	return New[StateType, CostType](factory, searchProblem.Goal(), named(StrategyAStar, options)...)
}

// NewAStarFloat64 creates an A* search with real-number costs.
func NewAStarFloat64[StateType comparable](
	searchProblem problem.Heuristic[StateType, float64],
	options ...Option,
) *Search[StateType, float64] {
	return NewAStar(searchProblem, cost.Float64(), options...)
}

// NewDijkstra creates a Dijkstra search: A* with an identity heuristic.
func NewDijkstra[StateType comparable, CostType any](
	searchProblem problem.Informed[StateType, CostType],
	algebra cost.Algebra[CostType],
	options ...Option,
) *Search[StateType, CostType] {
	factory := func() Iterator[StateType, CostType] {
		return algorithm.NewDijkstra(searchProblem, algebra)
	}
	return New[StateType, CostType](factory, searchProblem.Goal(), named(StrategyDijkstra, options)...)
}

// NewDijkstraFloat64 creates a Dijkstra search with real-number costs.
func NewDijkstraFloat64[StateType comparable](
	searchProblem problem.Informed[StateType, float64],
	options ...Option,
) *Search[StateType, float64] {
	return NewDijkstra(searchProblem, cost.Float64(), options...)
}

// NewBellmanFord creates a Bellman-Ford search. It supports negative edge costs.
func NewBellmanFord[StateType comparable, CostType any](
	searchProblem problem.Informed[StateType, CostType],
	algebra cost.Algebra[CostType],
	options ...Option,
) *Search[StateType, CostType] {
	factory := func() Iterator[StateType, CostType] {
		return algorithm.NewBellmanFord(searchProblem, algebra)
	}
	return New[StateType, CostType](factory, searchProblem.Goal(), named(StrategyBellmanFord, options)...)
}

// NewBellmanFordFloat64 creates a Bellman-Ford search with real-number costs.
func NewBellmanFordFloat64[StateType comparable](
	searchProblem problem.Informed[StateType, float64],
	options ...Option,
) *Search[StateType, float64] {
	return NewBellmanFord(searchProblem, cost.Float64(), options...)
}

// NewADStar creates an AD* search. epsilon inflates the heuristic and must be >= 1.
func NewADStar[StateType comparable, CostType any](
	searchProblem problem.Heuristic[StateType, CostType],
	algebra cost.Algebra[CostType],
	epsilon float64,
	options ...Option,
) (*Search[StateType, CostType], error) {
	// validate once so the factory below cannot fail
	if _, err := algorithm.NewADStar(searchProblem, algebra, epsilon); err != nil {
		return nil, err
	}
	factory := func() Iterator[StateType, CostType] {
		iterator, _ := algorithm.NewADStar(searchProblem, algebra, epsilon)
		return iterator
	}
	return New[StateType, CostType](factory, searchProblem.Goal(), named(StrategyADStar, options)...), nil
}

// NewADStarFloat64 creates an AD* search with real-number costs.
func NewADStarFloat64[StateType comparable](
	searchProblem problem.Heuristic[StateType, float64],
	epsilon float64,
	options ...Option,
) (*Search[StateType, float64], error) {
	return NewADStar(searchProblem, cost.Float64(), epsilon, options...)
}

// NewDepthFirst creates an uninformed depth-first search.
func NewDepthFirst[StateType comparable](
	searchProblem problem.Problem[StateType],
	options ...Option,
) *Search[StateType, algorithm.Unweighted] {
	factory := func() Iterator[StateType, algorithm.Unweighted] {
		return algorithm.NewDepthFirst(searchProblem)
	}
	return New[StateType, algorithm.Unweighted](factory, searchProblem.Goal(), named(StrategyDepthFirst, options)...)
}
