package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/hipster"
	"github.com/pdrpinto/hipster/algorithm"
	"github.com/pdrpinto/hipster/internal/scenario"
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

var solveFlags struct {
	scenario   string
	file       string
	algorithm  string
	epsilon    float64
	timeout    time.Duration
	jsonOutput bool
	expansions bool
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find a path through a scenario with one algorithm",
	RunE:  runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVarP(&solveFlags.scenario, "scenario", "s", "", "Embedded scenario name (see 'hipster scenarios')")
	f.StringVarP(&solveFlags.file, "file", "f", "", "Scenario YAML file")
	f.StringVarP(&solveFlags.algorithm, "algorithm", "a", hipster.StrategyAStar, "One of "+strings.Join(strategies, ", "))
	f.Float64Var(&solveFlags.epsilon, "epsilon", 1, "Heuristic inflation for adstar (>= 1)")
	f.DurationVar(&solveFlags.timeout, "timeout", 0, "Abort the search after this long (0 disables)")
	f.BoolVar(&solveFlags.jsonOutput, "json", false, "Print the result as JSON")
	f.BoolVar(&solveFlags.expansions, "expansions", false, "Print every node the algorithm emits, in order")
}

func runSolve(cmd *cobra.Command, _ []string) error {
	if err := validStrategy(solveFlags.algorithm); err != nil {
		return err
	}
	s, err := loadScenario(solveFlags.scenario, solveFlags.file)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if solveFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, solveFlags.timeout)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	if solveFlags.expansions {
		if err := printExpansions(ctx, out, s, solveFlags.algorithm, solveFlags.epsilon); err != nil {
			return err
		}
	}

	r, err := solveScenario(ctx, s, solveFlags.algorithm, solveFlags.epsilon)
	if err != nil {
		return fmt.Errorf("%s on %s: %w", solveFlags.algorithm, s.Name, err)
	}
	if solveFlags.jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	}
	printReport(out, r)
	return nil
}

func printReport(out io.Writer, r report) {
	fmt.Fprintf(out, "Scenario:   %s\n", r.Scenario)
	fmt.Fprintf(out, "Algorithm:  %s\n", r.Algorithm)
	if !r.Found {
		fmt.Fprintf(out, "Result:     goal unreachable after %d iterations\n", r.Iterations)
		return
	}
	if r.Cost != "" {
		fmt.Fprintf(out, "Cost:       %s\n", r.Cost)
	}
	fmt.Fprintf(out, "Path:       %s\n", strings.Join(r.Path, " -> "))
	fmt.Fprintf(out, "Iterations: %d\n", r.Iterations)
	fmt.Fprintf(out, "Elapsed:    %s\n", r.Elapsed)
}

// printExpansions drains the whole strategy sequence through an observer.
func printExpansions(ctx context.Context, out io.Writer, s *scenario.Scenario, strategy string, epsilon float64) error {
	switch s.Kind {
	case scenario.KindGrid:
		grid, err := s.Grid()
		if err != nil {
			return err
		}
		return observeProblem[problem.Point](ctx, out, grid, strategy, epsilon)
	default:
		graph, err := s.Graph()
		if err != nil {
			return err
		}
		return observeProblem[string](ctx, out, graph, strategy, epsilon)
	}
}

func observeProblem[StateType comparable](
	ctx context.Context,
	out io.Writer,
	searchProblem problem.Heuristic[StateType, float64],
	strategy string,
	epsilon float64,
) error {
	_, err := withSearch(searchProblem, strategy, epsilon,
		func(search *hipster.Search[StateType, float64]) (struct{}, error) {
			return struct{}{}, search.RunWithObserver(ctx, expansionPrinter[StateType, float64](out))
		},
		func(search *hipster.Search[StateType, algorithm.Unweighted]) (struct{}, error) {
			return struct{}{}, search.RunWithObserver(ctx, expansionPrinter[StateType, algorithm.Unweighted](out))
		},
	)
	return err
}

func expansionPrinter[StateType comparable, CostType any](out io.Writer) hipster.ObserverFunc[StateType, CostType] {
	step := 0
	return func(expanded *node.Node[StateType, CostType]) {
		step++
		if cost := formatCost(expanded); cost != "" {
			fmt.Fprintf(out, "%4d  %v  g=%s\n", step, expanded.State(), cost)
			return
		}
		fmt.Fprintf(out, "%4d  %v\n", step, expanded.State())
	}
}
