package algorithm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/hipster/cost"
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

type nodeIterator[StateType comparable, CostType any] interface {
	Next() (*node.Node[StateType, CostType], bool, error)
}

// drainUntil pulls until state is emitted or the iterator exhausts.
func drainUntil[StateType comparable, CostType any](
	t *testing.T,
	iterator nodeIterator[StateType, CostType],
	state StateType,
) (*node.Node[StateType, CostType], []StateType) {
	t.Helper()
	var order []StateType
	for {
		n, ok, err := iterator.Next()
		require.NoError(t, err)
		if !ok {
			return nil, order
		}
		order = append(order, n.State())
		if n.State() == state {
			return n, order
		}
	}
}

func diamond() *problem.Graph[string] {
	return problem.NewGraph("a", "d").
		AddEdge("a", "b", 1).
		AddEdge("b", "d", 1).
		AddEdge("a", "c", 2).
		AddEdge("c", "d", 2)
}

func TestAStar_Grid(t *testing.T) {
	grid, err := problem.ParseGrid([]string{
		"S.#....",
		"..#.##.",
		"..#..#.",
		".....#G",
	})
	require.NoError(t, err)

	goal, _ := drainUntil[problem.Point, float64](t, NewAStar[problem.Point, float64](grid, cost.Float64()), grid.Goal())

	require.NotNil(t, goal)
	// the walls force a detour through (2,3) and (5,0)
	assert.Equal(t, 15.0, goal.G())
	states := goal.States()
	assert.Equal(t, grid.Origin(), states[0])
	assert.Len(t, states, 16)
	assert.Contains(t, states, problem.Point{X: 2, Y: 3})
	assert.Contains(t, states, problem.Point{X: 5, Y: 0})
	for _, p := range states {
		assert.False(t, grid.Walls[p], "path crosses wall at %v", p)
	}
}

func TestAStar_ClosedOnce(t *testing.T) {
	iterator := NewAStar[string, float64](diamond(), cost.Float64())

	_, order := drainUntil[string, float64](t, iterator, "unreachable")

	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, order)
	assert.Empty(t, iterator.Frontier())
}

func TestDijkstra_Order(t *testing.T) {
	_, order := drainUntil[string, float64](t, NewDijkstra[string, float64](diamond(), cost.Float64()), "d")

	// c (g=2) and d (g=2) tie; c was queued first
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestAStar_SuccessorErrorIsSticky(t *testing.T) {
	boom := errors.New("boom")
	failing := problem.Funcs[string, float64]{
		OriginState: "a",
		GoalState:   "b",
		SuccessorsFunc: func(string) ([]node.Transition[string], error) {
			return nil, boom
		},
	}
	iterator := NewAStar[string, float64](failing, cost.Float64())

	_, ok, err := iterator.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = iterator.Next()
	assert.ErrorIs(t, err, boom)
	_, _, err = iterator.Next()
	assert.ErrorIs(t, err, boom)
}

func TestDepthFirst(t *testing.T) {
	graph := problem.NewGraph("a", "e").
		AddEdge("a", "b", 1).
		AddEdge("a", "c", 1).
		AddEdge("b", "d", 1).
		AddEdge("d", "a", 1).
		AddEdge("c", "e", 1)

	goal, order := drainUntil[string, Unweighted](t, NewDepthFirst[string](graph), "e")

	assert.Equal(t, []string{"a", "b", "d", "c", "e"}, order)
	require.NotNil(t, goal)
	assert.Equal(t, []string{"a", "c", "e"}, goal.States())
	assert.False(t, goal.Has(node.Cost))
}

func TestDepthFirst_Exhausts(t *testing.T) {
	graph := problem.NewGraph("a", "z").AddBidirectionalEdge("a", "b", 1)

	goal, order := drainUntil[string, Unweighted](t, NewDepthFirst[string](graph), "z")

	assert.Nil(t, goal)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestBellmanFord_NegativeEdges(t *testing.T) {
	graph := problem.NewGraph("s", "t").
		AddEdge("s", "a", 4).
		AddEdge("s", "b", 1).
		AddEdge("a", "t", 1).
		AddEdge("b", "t", 5).
		AddEdge("b", "a", -4)

	iterator := NewBellmanFord[string, float64](graph, cost.Float64())
	goal, order := drainUntil[string, float64](t, iterator, "t")

	require.NotNil(t, goal)
	assert.Equal(t, -2.0, goal.G())
	assert.Equal(t, []string{"s", "b", "a", "t"}, goal.States())
	assert.Equal(t, []string{"s", "a", "b", "t"}, order)
	assert.Positive(t, iterator.Relaxations())
	assert.True(t, goal.Has(node.Cost))
	assert.False(t, goal.Has(node.Heuristic))
}

func TestBellmanFord_NegativeCycle(t *testing.T) {
	graph := problem.NewGraph("s", "t").
		AddEdge("s", "a", 1).
		AddEdge("a", "b", -2).
		AddEdge("b", "a", 1).
		AddEdge("b", "t", 1)

	iterator := NewBellmanFord[string, float64](graph, cost.Float64())

	_, _, err := iterator.Next()
	require.ErrorIs(t, err, ErrNegativeCycle)
	_, _, err = iterator.Next()
	assert.ErrorIs(t, err, ErrNegativeCycle)
}

func TestBellmanFord_ZeroCycleIsFine(t *testing.T) {
	graph := problem.NewGraph("s", "t").
		AddEdge("s", "a", 1).
		AddBidirectionalEdge("a", "b", 0).
		AddEdge("b", "t", 1)

	goal, _ := drainUntil[string, float64](t, NewBellmanFord[string, float64](graph, cost.Float64()), "t")

	require.NotNil(t, goal)
	assert.Equal(t, 2.0, goal.G())
}

func TestADStar_MatchesDijkstra(t *testing.T) {
	iterator, err := NewADStar[string, float64](diamond(), cost.Float64(), 1)
	require.NoError(t, err)

	goal, _ := drainUntil[string, float64](t, iterator, "d")

	require.NotNil(t, goal)
	assert.Equal(t, 2.0, goal.G())
	assert.Equal(t, []string{"a", "b", "d"}, goal.States())
	assert.True(t, goal.Has(node.Lookahead))
	assert.Equal(t, goal.G(), goal.RHS())
}

func TestADStar_RepairsAfterCostIncrease(t *testing.T) {
	graph := diamond()
	iterator, err := NewADStar[string, float64](graph, cost.Float64(), 1)
	require.NoError(t, err)

	goal, _ := drainUntil[string, float64](t, iterator, "d")
	require.NotNil(t, goal)
	assert.Equal(t, []string{"a", "b", "d"}, goal.States())

	require.NoError(t, graph.SetCost("b", "d", 10))
	require.NoError(t, iterator.Invalidate("d"))

	repaired, _ := drainUntil[string, float64](t, iterator, "d")
	require.NotNil(t, repaired)
	assert.Equal(t, 4.0, repaired.G())
	assert.Equal(t, []string{"a", "c", "d"}, repaired.States())
}

func TestADStar_ReemitsGoalWhenChangeIsIrrelevant(t *testing.T) {
	graph := diamond()
	iterator, err := NewADStar[string, float64](graph, cost.Float64(), 1)
	require.NoError(t, err)

	goal, _ := drainUntil[string, float64](t, iterator, "d")
	require.NotNil(t, goal)

	require.NoError(t, graph.SetCost("a", "c", 3))
	require.NoError(t, iterator.Invalidate("c"))

	again, _ := drainUntil[string, float64](t, iterator, "d")
	require.NotNil(t, again)
	assert.Equal(t, 2.0, again.G())
	assert.Equal(t, []string{"a", "b", "d"}, again.States())
}

func TestADStar_Epsilon(t *testing.T) {
	_, err := NewADStar[string, float64](diamond(), cost.Float64(), 0.9)
	require.ErrorIs(t, err, ErrInvalidEpsilon)

	grid, err := problem.ParseGrid([]string{
		"S...",
		".##.",
		"...G",
	})
	require.NoError(t, err)
	iterator, err := NewADStar[problem.Point, float64](grid, cost.Float64(), 3)
	require.NoError(t, err)

	goal, _ := drainUntil[problem.Point, float64](t, iterator, grid.Goal())
	require.NotNil(t, goal)
	// inflated search stays within epsilon of the optimum (5)
	assert.LessOrEqual(t, goal.G(), 15.0)

	require.ErrorIs(t, iterator.SetEpsilon(0), ErrInvalidEpsilon)
	require.NoError(t, iterator.SetEpsilon(1))
	assert.Equal(t, 1.0, iterator.Epsilon())

	improved, _ := drainUntil[problem.Point, float64](t, iterator, grid.Goal())
	require.NotNil(t, improved)
	assert.Equal(t, 5.0, improved.G())
}
