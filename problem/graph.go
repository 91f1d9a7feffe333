package problem

import (
	"fmt"
	"sync"

	"github.com/pdrpinto/hipster/node"
)

// Edge is a weighted directed edge.
type Edge[StateType comparable] struct {
	From StateType `json:"from" yaml:"from"`
	To   StateType `json:"to" yaml:"to"`
	Cost float64   `json:"cost" yaml:"cost"`
}

// Graph is a weighted directed graph usable as a Heuristic problem.
//
// Edge costs may be changed with SetCost between pulls of an AD* search; the
// graph guards its adjacency with a RWMutex so concurrent readers are safe.
type Graph[StateType comparable] struct {
	mu        sync.RWMutex
	origin    StateType
	goal      StateType
	order     map[StateType][]StateType
	costs     map[node.Transition[StateType]]float64
	heuristic func(state StateType) float64
}

// NewGraph creates an empty graph searched from origin to goal.
func NewGraph[StateType comparable](origin, goal StateType) *Graph[StateType] {
	return &Graph[StateType]{
		origin: origin,
		goal:   goal,
		order:  make(map[StateType][]StateType),
		costs:  make(map[node.Transition[StateType]]float64),
	}
}

// AddEdge adds from -> to with cost, replacing the cost if the edge exists.
func (g *Graph[StateType]) AddEdge(from, to StateType, cost float64) *Graph[StateType] {
	g.mu.Lock()
	defer g.mu.Unlock()
	transition := node.NewTransition(from, to)
	if _, exists := g.costs[transition]; !exists {
		g.order[from] = append(g.order[from], to)
	}
	g.costs[transition] = cost
	return g
}

// AddEdges adds every edge in order.
func (g *Graph[StateType]) AddEdges(edges ...Edge[StateType]) *Graph[StateType] {
	for _, edge := range edges {
		g.AddEdge(edge.From, edge.To, edge.Cost)
	}
	return g
}

// AddBidirectionalEdge adds both directions with the same cost.
func (g *Graph[StateType]) AddBidirectionalEdge(a, b StateType, cost float64) *Graph[StateType] {
	return g.AddEdge(a, b, cost).AddEdge(b, a, cost)
}

// SetCost changes the cost of an existing edge.
func (g *Graph[StateType]) SetCost(from, to StateType, cost float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	transition := node.NewTransition(from, to)
	if _, exists := g.costs[transition]; !exists {
		return fmt.Errorf("edge %v does not exist", transition)
	}
	g.costs[transition] = cost
	return nil
}

// SetHeuristic installs the estimate function. Without one Estimate returns 0.
func (g *Graph[StateType]) SetHeuristic(heuristic func(state StateType) float64) *Graph[StateType] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.heuristic = heuristic
	return g
}

func (g *Graph[StateType]) Origin() StateType { return g.origin }
func (g *Graph[StateType]) Goal() StateType   { return g.goal }

// Successors returns outgoing edges in insertion order.
func (g *Graph[StateType]) Successors(state StateType) ([]node.Transition[StateType], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	targets := g.order[state]
	transitions := make([]node.Transition[StateType], 0, len(targets))
	for _, to := range targets {
		transitions = append(transitions, node.NewTransition(state, to))
	}
	return transitions, nil
}

// Cost returns the edge cost, or 0 for an edge that was never added.
func (g *Graph[StateType]) Cost(transition node.Transition[StateType]) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.costs[transition]
}

func (g *Graph[StateType]) Estimate(state StateType) float64 {
	g.mu.RLock()
	heuristic := g.heuristic
	g.mu.RUnlock()
	if heuristic == nil {
		return 0
	}
	return heuristic(state)
}
