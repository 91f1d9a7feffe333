package hipster

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/hipster/cost"
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

// chainIterator emits a fixed linear chain of cost nodes.
type chainIterator struct {
	arena  *node.Arena[string, float64]
	states []string
	last   *node.Node[string, float64]
	index  int
	failAt int
	err    error
}

func newChainFactory(states ...string) Factory[string, float64] {
	return func() Iterator[string, float64] {
		return &chainIterator{arena: node.NewArena[string](cost.Float64()), states: states, failAt: -1}
	}
}

func (c *chainIterator) Next() (*node.Node[string, float64], bool, error) {
	if c.index == c.failAt {
		return nil, false, c.err
	}
	if c.index >= len(c.states) {
		return nil, false, nil
	}
	state := c.states[c.index]
	c.index++
	var (
		next *node.Node[string, float64]
		err  error
	)
	if c.last == nil {
		next, err = c.arena.NewCost(state, node.Origin(state), node.NoParent, 0)
	} else {
		next, err = c.arena.NewCost(state, node.NewTransition(c.last.State(), state), c.last.Handle(), c.last.G()+1)
	}
	if err != nil {
		return nil, false, err
	}
	c.last = next
	return next, true, nil
}

func linearGraph() *problem.Graph[string] {
	return problem.NewGraph("A", "C").
		AddEdge("A", "B", 1).
		AddEdge("B", "C", 1)
}

func TestRun_LinearChain(t *testing.T) {
	search := New(newChainFactory("A", "B", "C"), "C")

	result, err := search.Run(context.Background())
	require.NoError(t, err)

	require.True(t, result.Found())
	if diff := cmp.Diff([]string{"A", "B", "C"}, result.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, result.Iterations)
	assert.Equal(t, "C", result.Goal.State())
	assert.NotEmpty(t, result.RunID)
	assert.GreaterOrEqual(t, result.Elapsed.Nanoseconds(), int64(0))
}

func TestRun_OriginIsGoal(t *testing.T) {
	search := NewAStarFloat64[string](problem.NewGraph("A", "A").AddEdge("A", "B", 1))

	result, err := search.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, result.Path)
	assert.GreaterOrEqual(t, result.Iterations, 1)
}

func TestRun_Exhausted(t *testing.T) {
	search := New(newChainFactory("A", "B"), "Z")

	result, err := search.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Found())
	assert.Nil(t, result.Goal)
	assert.Empty(t, result.Path)
	assert.Equal(t, 2, result.Iterations)

	_, err = search.OptimalPath(context.Background())
	require.ErrorIs(t, err, ErrGoalUnreachable)
	assert.True(t, IsGoalUnreachable(err))
}

func TestRun_DisconnectedGoal(t *testing.T) {
	graph := problem.NewGraph("A", "D").
		AddEdge("A", "B", 1).
		AddEdge("C", "D", 1)

	search := NewDijkstraFloat64[string](graph)

	result, err := search.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Found())

	_, err = search.OptimalPath(context.Background())
	assert.ErrorIs(t, err, ErrGoalUnreachable)
}

func TestRun_PropagatesStrategyError(t *testing.T) {
	boom := errors.New("transition generator failed")
	factory := func() Iterator[string, float64] {
		return &chainIterator{
			arena:  node.NewArena[string](cost.Float64()),
			states: []string{"A", "B", "C"},
			failAt: 1,
			err:    boom,
		}
	}

	result, err := New[string, float64](factory, "C").Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, result.Iterations)
	assert.False(t, result.Found())

	_, err = New[string, float64](factory, "C").OptimalPath(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRun_ProblemErrorReachesCaller(t *testing.T) {
	boom := errors.New("successors unavailable")
	failing := problem.Funcs[string, float64]{
		OriginState: "A",
		GoalState:   "B",
		SuccessorsFunc: func(string) ([]node.Transition[string], error) {
			return nil, boom
		},
	}

	_, err := NewAStarFloat64[string](failing).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(newChainFactory("A", "B", "C"), "C").Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Iterations)
}

func TestRun_Deterministic(t *testing.T) {
	grid, err := problem.ParseGrid([]string{
		"S....",
		".##..",
		"....G",
	})
	require.NoError(t, err)
	search := NewAStarFloat64[problem.Point](grid)

	first, err := search.Run(context.Background())
	require.NoError(t, err)
	second, err := search.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Iterations, second.Iterations)
	assert.Len(t, first.Path, 7)
}

func TestRunWithObserver_DrainsEverything(t *testing.T) {
	search := New(newChainFactory("A", "B", "C", "D"), "B")

	var seen []string
	err := search.RunWithObserver(context.Background(), ObserverFunc[string, float64](func(n *node.Node[string, float64]) {
		seen = append(seen, n.State())
	}))
	require.NoError(t, err)

	// no goal short-circuit
	assert.Equal(t, []string{"A", "B", "C", "D"}, seen)
}

func TestRunWithObserver_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	factory := func() Iterator[string, float64] {
		return &chainIterator{arena: node.NewArena[string](cost.Float64()), states: []string{"A", "B"}, failAt: 1, err: boom}
	}

	count := 0
	err := New[string, float64](factory, "B").RunWithObserver(context.Background(), ObserverFunc[string, float64](func(*node.Node[string, float64]) {
		count++
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count)
}

func TestIterator_IndependentSequences(t *testing.T) {
	search := NewAStarFloat64[string](linearGraph())

	drain := func(iterator Iterator[string, float64]) []string {
		var states []string
		for {
			n, ok, err := iterator.Next()
			require.NoError(t, err)
			if !ok {
				return states
			}
			states = append(states, n.State())
		}
	}

	first := search.Iterator()
	second := search.Iterator()
	assert.Equal(t, drain(first), drain(second))
}

func TestAll(t *testing.T) {
	search := New(newChainFactory("A", "B", "C"), "C")

	var states []string
	for n, err := range search.All() {
		require.NoError(t, err)
		states = append(states, n.State())
		if n.State() == "B" {
			break
		}
	}
	assert.Equal(t, []string{"A", "B"}, states)
}

func TestAll_YieldsError(t *testing.T) {
	boom := errors.New("boom")
	factory := func() Iterator[string, float64] {
		return &chainIterator{arena: node.NewArena[string](cost.Float64()), states: []string{"A"}, failAt: 0, err: boom}
	}

	var got error
	for _, err := range New[string, float64](factory, "A").All() {
		got = err
	}
	assert.ErrorIs(t, got, boom)
}

func checkProducedPaths[CostType any](t *testing.T, search *Search[string, CostType]) {
	t.Helper()
	count := 0
	for n, err := range search.All() {
		require.NoError(t, err)
		states := n.States()
		require.NotEmpty(t, states)
		assert.Equal(t, "a", states[0])
		assert.Equal(t, n.Transition().To(), states[len(states)-1])
		count++
	}
	assert.Positive(t, count)
}

func TestEveryProducedNodeReconstructsFromOrigin(t *testing.T) {
	graph := problem.NewGraph("a", "e").
		AddEdge("a", "b", 2).
		AddEdge("a", "c", 1).
		AddEdge("c", "b", 1.5).
		AddEdge("b", "d", 1).
		AddEdge("c", "d", 5).
		AddEdge("d", "e", 1)
	adstar, err := NewADStarFloat64[string](graph, 1)
	require.NoError(t, err)

	t.Run("astar", func(t *testing.T) { checkProducedPaths(t, NewAStarFloat64[string](graph)) })
	t.Run("dijkstra", func(t *testing.T) { checkProducedPaths(t, NewDijkstraFloat64[string](graph)) })
	t.Run("bellman-ford", func(t *testing.T) { checkProducedPaths(t, NewBellmanFordFloat64[string](graph)) })
	t.Run("adstar", func(t *testing.T) { checkProducedPaths(t, adstar) })
	t.Run("dfs", func(t *testing.T) { checkProducedPaths(t, NewDepthFirst[string](graph)) })
}

func TestStrategiesAgreeOnOptimalPath(t *testing.T) {
	graph := problem.NewGraph("a", "e").
		AddEdge("a", "b", 2).
		AddEdge("a", "c", 1).
		AddEdge("c", "b", 1.5).
		AddEdge("b", "d", 1).
		AddEdge("c", "d", 5).
		AddEdge("d", "e", 1)
	want := []string{"a", "b", "d", "e"}

	astar, err := NewAStarFloat64[string](graph).Run(context.Background())
	require.NoError(t, err)
	dijkstra, err := NewDijkstraFloat64[string](graph).Run(context.Background())
	require.NoError(t, err)
	bellmanFord, err := NewBellmanFordFloat64[string](graph).Run(context.Background())
	require.NoError(t, err)
	adstarSearch, err := NewADStarFloat64[string](graph, 1)
	require.NoError(t, err)
	adstar, err := adstarSearch.Run(context.Background())
	require.NoError(t, err)

	for name, result := range map[string]Result[string, float64]{
		"astar":        astar,
		"dijkstra":     dijkstra,
		"bellman-ford": bellmanFord,
		"adstar":       adstar,
	} {
		assert.Equal(t, 4.0, result.Goal.G(), name)
		assert.Len(t, result.Path, len(want), name)
	}
	assert.Equal(t, want, astar.Path)

	path, err := NewDepthFirst[string](graph).OptimalPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", path[0])
	assert.Equal(t, "e", path[len(path)-1])
}

func TestNewADStar_InvalidEpsilon(t *testing.T) {
	_, err := NewADStarFloat64[string](linearGraph(), 0.5)
	assert.Error(t, err)
}

func TestCustomAlgebra_Probability(t *testing.T) {
	// edge values are success probabilities; the best route maximises their product
	graph := problem.NewGraph("a", "c").
		AddEdge("a", "b", 0.9).
		AddEdge("b", "c", 0.9).
		AddEdge("a", "c", 0.5).
		SetHeuristic(func(string) float64 { return 1 })

	result, err := NewAStar[string, float64](graph, cost.Probability()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, result.Path)
	assert.InDelta(t, 0.81, result.Goal.G(), 1e-12)
	assert.InDelta(t, cost.Probability().Combine(result.Goal.G(), result.Goal.H()), result.Goal.F(), 1e-12)
}

func TestRun_LogsAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	before := testutil.ToFloat64(searchRunsTotal.WithLabelValues("metrics-test", outcomeFound))
	_, err := New(newChainFactory("A", "B"), "B", WithLogger(logger), WithName("metrics-test")).Run(context.Background())
	require.NoError(t, err)

	after := testutil.ToFloat64(searchRunsTotal.WithLabelValues("metrics-test", outcomeFound))
	assert.Equal(t, before+1, after)
	assert.True(t, strings.Contains(buf.String(), "search completed"))
	assert.Contains(t, buf.String(), "strategy=metrics-test")
}
