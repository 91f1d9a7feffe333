package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdrpinto/hipster/internal/logging"
	"github.com/pdrpinto/hipster/internal/scenario"
)

var compareFlags struct {
	scenario   string
	file       string
	algorithms []string
	epsilon    float64
	parallel   int
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several algorithms on the same scenario and tabulate the results",
	RunE:  runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVarP(&compareFlags.scenario, "scenario", "s", "", "Embedded scenario name")
	f.StringVarP(&compareFlags.file, "file", "f", "", "Scenario YAML file")
	f.StringSliceVarP(&compareFlags.algorithms, "algorithms", "a", strategies, "Algorithms to run")
	f.Float64Var(&compareFlags.epsilon, "epsilon", 1, "Heuristic inflation for adstar (>= 1)")
	f.IntVar(&compareFlags.parallel, "parallel", 4, "Maximum concurrent searches (0 means unlimited)")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	for _, strategy := range compareFlags.algorithms {
		if err := validStrategy(strategy); err != nil {
			return err
		}
	}
	s, err := loadScenario(compareFlags.scenario, compareFlags.file)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reports, err := compareStrategies(ctx, s, compareFlags.algorithms, compareFlags.epsilon, compareFlags.parallel)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"algorithm", "found", "cost", "iterations", "elapsed", "path"})
	for _, r := range reports {
		found := strconv.FormatBool(r.Found)
		if r.Error != "" {
			found = "error: " + r.Error
		}
		table.Append([]string{
			r.Algorithm,
			found,
			r.Cost,
			strconv.Itoa(r.Iterations),
			r.Elapsed.String(),
			strings.Join(r.Path, " "),
		})
	}
	table.Render()
	return nil
}

// compareStrategies runs every strategy concurrently on its own copy of the
// scenario. A failing strategy is reported in its row; only cancellation of
// ctx fails the whole comparison.
func compareStrategies(
	ctx context.Context,
	s *scenario.Scenario,
	algorithms []string,
	epsilon float64,
	parallel int,
) ([]report, error) {
	logger := logging.New("compare")
	reports := make([]report, len(algorithms))

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, strategy := range algorithms {
		g.Go(func() error {
			r, err := solveScenario(gctx, s, strategy, epsilon)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Info("algorithm failed", "algorithm", strategy, "scenario", s.Name, "error", err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compare %s: %w", s.Name, err)
	}
	return reports, nil
}
