package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdrpinto/hipster"
	"github.com/pdrpinto/hipster/algorithm"
	"github.com/pdrpinto/hipster/internal/logging"
	"github.com/pdrpinto/hipster/internal/scenario"
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

var strategies = []string{
	hipster.StrategyAStar,
	hipster.StrategyDijkstra,
	hipster.StrategyBellmanFord,
	hipster.StrategyADStar,
	hipster.StrategyDepthFirst,
}

var errUnknownStrategy = errors.New("unknown algorithm")

// report is the state-type independent outcome of one run.
type report struct {
	Scenario   string        `json:"scenario"`
	Algorithm  string        `json:"algorithm"`
	Found      bool          `json:"found"`
	Cost       string        `json:"cost,omitempty"`
	Path       []string      `json:"path"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	RunID      string        `json:"run_id"`
	Error      string        `json:"error,omitempty"`
}

func validStrategy(name string) error {
	for _, strategy := range strategies {
		if strategy == name {
			return nil
		}
	}
	return fmt.Errorf("%w %q (want one of %s)", errUnknownStrategy, name, strings.Join(strategies, ", "))
}

// withSearch builds the search named by strategy and hands it to the matching
// callback. Depth-first search carries no costs, so it gets its own callback.
func withSearch[StateType comparable, R any](
	searchProblem problem.Heuristic[StateType, float64],
	strategy string,
	epsilon float64,
	weighted func(*hipster.Search[StateType, float64]) (R, error),
	unweighted func(*hipster.Search[StateType, algorithm.Unweighted]) (R, error),
) (R, error) {
	options := []hipster.Option{hipster.WithLogger(logging.New(strategy))}
	switch strategy {
	case hipster.StrategyAStar:
		return weighted(hipster.NewAStarFloat64[StateType](searchProblem, options...))
	case hipster.StrategyDijkstra:
		return weighted(hipster.NewDijkstraFloat64[StateType](searchProblem, options...))
	case hipster.StrategyBellmanFord:
		return weighted(hipster.NewBellmanFordFloat64[StateType](searchProblem, options...))
	case hipster.StrategyADStar:
		search, err := hipster.NewADStarFloat64[StateType](searchProblem, epsilon, options...)
		if err != nil {
			var zero R
			return zero, err
		}
		return weighted(search)
	case hipster.StrategyDepthFirst:
		return unweighted(hipster.NewDepthFirst[StateType](searchProblem, options...))
	}
	var zero R
	return zero, validStrategy(strategy)
}

func formatCost[StateType comparable, CostType any](n *node.Node[StateType, CostType]) string {
	if n == nil || !n.Has(node.Cost) {
		return ""
	}
	return fmt.Sprint(n.G())
}

func formatStates[StateType comparable](states []StateType) []string {
	out := make([]string, len(states))
	for i, state := range states {
		out[i] = fmt.Sprint(state)
	}
	return out
}

func runSearch[StateType comparable, CostType any](
	ctx context.Context,
	search *hipster.Search[StateType, CostType],
) (report, error) {
	result, err := search.Run(ctx)
	r := report{
		Found:      result.Found(),
		Cost:       formatCost(result.Goal),
		Path:       formatStates(result.Path),
		Iterations: result.Iterations,
		Elapsed:    result.Elapsed,
		RunID:      result.RunID,
	}
	return r, err
}

func solveProblem[StateType comparable](
	ctx context.Context,
	searchProblem problem.Heuristic[StateType, float64],
	strategy string,
	epsilon float64,
) (report, error) {
	return withSearch(searchProblem, strategy, epsilon,
		func(search *hipster.Search[StateType, float64]) (report, error) {
			return runSearch(ctx, search)
		},
		func(search *hipster.Search[StateType, algorithm.Unweighted]) (report, error) {
			return runSearch(ctx, search)
		},
	)
}

// solveScenario runs one strategy on a fresh problem built from s.
func solveScenario(ctx context.Context, s *scenario.Scenario, strategy string, epsilon float64) (report, error) {
	var (
		r   report
		err error
	)
	switch s.Kind {
	case scenario.KindGrid:
		grid, gridErr := s.Grid()
		if gridErr != nil {
			return report{}, gridErr
		}
		r, err = solveProblem[problem.Point](ctx, grid, strategy, epsilon)
	default:
		graph, graphErr := s.Graph()
		if graphErr != nil {
			return report{}, graphErr
		}
		r, err = solveProblem[string](ctx, graph, strategy, epsilon)
	}
	r.Scenario = s.Name
	r.Algorithm = strategy
	if err != nil {
		r.Error = err.Error()
	}
	return r, err
}

// loadScenario resolves the --scenario and --file flags.
func loadScenario(name, filename string) (*scenario.Scenario, error) {
	switch {
	case filename != "" && name != "":
		return nil, errors.New("use either --scenario or --file, not both")
	case filename != "":
		return scenario.Load(filename)
	case name != "":
		return scenario.LoadBuiltin(name)
	}
	return nil, errors.New("one of --scenario or --file is required")
}
