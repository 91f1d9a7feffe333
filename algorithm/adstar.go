package algorithm

import (
	"errors"
	"fmt"

	"github.com/pdrpinto/hipster/cost"
	"github.com/pdrpinto/hipster/node"
	"github.com/pdrpinto/hipster/problem"
)

// ErrInvalidEpsilon is returned for an inflation factor below 1.
var ErrInvalidEpsilon = errors.New("epsilon must be >= 1")

// ADStar is a forward Anytime Dynamic A* iterator.
//
// Each state keeps g (cost of its last expansion) and rhs (best one-step
// lookahead through known predecessors). Over-consistent states (g > rhs) are
// closed and emitted; under-consistent ones are reset to infinity and queued
// again without being emitted. After the caller changes edge costs it calls
// Invalidate with the affected targets and keeps pulling: states whose cost
// changed are re-emitted, the goal included.
//
// Invariant: every state contributing to an rhs value has been emitted, so the
// parent handle of a queued node always resolves.
type ADStar[StateType comparable, CostType any] struct {
	problem problem.Heuristic[StateType, CostType]
	algebra cost.Algebra[CostType]
	epsilon float64

	arena   *node.Arena[StateType, CostType]
	openSet *node.Frontier[StateType, CostType]
	closed  map[StateType]bool

	g         map[StateType]CostType
	rhs       map[StateType]CostType
	bestPred  map[StateType]StateType
	preds     map[StateType][]StateType
	predSet   map[StateType]map[StateType]bool
	emitted   map[StateType]*node.Node[StateType, CostType]
	incons    []StateType
	inconsSet map[StateType]bool

	goalEmitted bool
	started     bool
	err         error
}

// NewADStar creates an AD* iterator. epsilon inflates the heuristic and must be >= 1.
func NewADStar[StateType comparable, CostType any](
	searchProblem problem.Heuristic[StateType, CostType],
	algebra cost.Algebra[CostType],
	epsilon float64,
) (*ADStar[StateType, CostType], error) {
	if epsilon < 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidEpsilon, epsilon)
	}
	return &ADStar[StateType, CostType]{
		problem:   searchProblem,
		algebra:   algebra,
		epsilon:   epsilon,
		arena:     node.NewArena[StateType](algebra),
		openSet:   node.NewFrontier(node.ByKey[StateType](algebra)),
		closed:    make(map[StateType]bool),
		g:         make(map[StateType]CostType),
		rhs:       make(map[StateType]CostType),
		bestPred:  make(map[StateType]StateType),
		preds:     make(map[StateType][]StateType),
		predSet:   make(map[StateType]map[StateType]bool),
		emitted:   make(map[StateType]*node.Node[StateType, CostType]),
		inconsSet: make(map[StateType]bool),
	}, nil
}

// Epsilon returns the current inflation factor.
func (a *ADStar[StateType, CostType]) Epsilon() float64 { return a.epsilon }

func (a *ADStar[StateType, CostType]) Next() (*node.Node[StateType, CostType], bool, error) {
	if a.err != nil {
		return nil, false, a.err
	}
	if !a.started {
		a.started = true
		origin := a.problem.Origin()
		a.rhs[origin] = a.algebra.Identity()
		if err := a.enqueue(origin); err != nil {
			return a.fail(err)
		}
	}

	for {
		if goalNode, ok, err := a.settledGoal(); err != nil {
			return a.fail(err)
		} else if ok {
			return goalNode, true, nil
		}

		top, ok := a.openSet.Pop()
		if !ok {
			return nil, false, nil
		}
		state := top.State()
		if a.algebra.Compare(a.gOf(state), a.rhsOf(state)) > 0 {
			a.g[state] = a.rhsOf(state)
			a.closed[state] = true
			expanded, err := a.snapshot(state)
			if err != nil {
				return a.fail(err)
			}
			a.emitted[state] = expanded
			if state == a.problem.Goal() {
				a.goalEmitted = true
			}
			if err := a.updateSuccessors(state); err != nil {
				return a.fail(err)
			}
			return expanded, true, nil
		}

		a.g[state] = a.algebra.Infinity()
		if err := a.updateSuccessors(state); err != nil {
			return a.fail(err)
		}
		if err := a.updateState(state); err != nil {
			return a.fail(err)
		}
	}
}

// Invalidate recomputes the lookahead of states whose incoming edge costs
// changed and reopens the search. Pull Next again to repair the solution.
func (a *ADStar[StateType, CostType]) Invalidate(states ...StateType) error {
	for _, state := range states {
		if err := a.updateState(state); err != nil {
			return a.record(err)
		}
	}
	return a.record(a.reopen())
}

// SetEpsilon changes the inflation factor and reopens the search so that the
// next pulls improve the current solution towards the new bound.
func (a *ADStar[StateType, CostType]) SetEpsilon(epsilon float64) error {
	if epsilon < 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidEpsilon, epsilon)
	}
	a.epsilon = epsilon
	return a.record(a.reopen())
}

// reopen moves inconsistent states to the open set, recomputes every key under
// the current epsilon and clears the closed set.
func (a *ADStar[StateType, CostType]) reopen() error {
	pending := append([]StateType(nil), a.incons...)
	for _, queued := range a.openSet.Nodes() {
		pending = append(pending, queued.State())
	}
	a.incons = nil
	a.inconsSet = make(map[StateType]bool)
	a.closed = make(map[StateType]bool)
	a.goalEmitted = false
	for _, state := range pending {
		if err := a.enqueue(state); err != nil {
			return err
		}
	}
	return nil
}

// settledGoal emits the goal again when it is consistent and no queued key can
// improve it; this happens after a replan that does not touch the goal.
func (a *ADStar[StateType, CostType]) settledGoal() (*node.Node[StateType, CostType], bool, error) {
	goal := a.problem.Goal()
	if a.goalEmitted || !a.started {
		return nil, false, nil
	}
	goalG := a.gOf(goal)
	if !cost.Less(a.algebra, goalG, a.algebra.Infinity()) || a.algebra.Compare(goalG, a.rhsOf(goal)) != 0 {
		return nil, false, nil
	}
	if top, ok := a.openSet.Peek(); ok {
		goalKey := node.KeyFor(a.algebra, goalG, a.rhsOf(goal), a.problem.Estimate(goal), a.epsilon)
		if node.CompareKeys(a.algebra, goalKey, top.Key()) > 0 {
			return nil, false, nil
		}
	}
	goalNode, err := a.snapshot(goal)
	if err != nil {
		return nil, false, err
	}
	a.emitted[goal] = goalNode
	a.goalEmitted = true
	return goalNode, true, nil
}

func (a *ADStar[StateType, CostType]) updateSuccessors(state StateType) error {
	transitions, err := a.problem.Successors(state)
	if err != nil {
		return err
	}
	for _, transition := range transitions {
		successor := transition.To()
		if !a.predSet[successor][state] {
			if a.predSet[successor] == nil {
				a.predSet[successor] = make(map[StateType]bool)
			}
			a.predSet[successor][state] = true
			a.preds[successor] = append(a.preds[successor], state)
		}
		if err := a.updateState(successor); err != nil {
			return err
		}
	}
	return nil
}

// updateState recomputes rhs from the known predecessors and files the state
// into open or the inconsistent list.
func (a *ADStar[StateType, CostType]) updateState(state StateType) error {
	if state != a.problem.Origin() {
		best := a.algebra.Infinity()
		var bestPred StateType
		found := false
		for _, pred := range a.preds[state] {
			if _, expanded := a.emitted[pred]; !expanded {
				continue
			}
			candidate := a.algebra.Combine(a.gOf(pred), a.problem.Cost(node.NewTransition(pred, state)))
			if !found || cost.Less(a.algebra, candidate, best) {
				best, bestPred, found = candidate, pred, true
			}
		}
		a.rhs[state] = best
		if found {
			a.bestPred[state] = bestPred
		} else {
			delete(a.bestPred, state)
		}
	}

	a.openSet.Remove(state)
	if a.algebra.Compare(a.gOf(state), a.rhsOf(state)) == 0 {
		return nil
	}
	if a.closed[state] {
		if !a.inconsSet[state] {
			a.inconsSet[state] = true
			a.incons = append(a.incons, state)
		}
		return nil
	}
	return a.enqueue(state)
}

func (a *ADStar[StateType, CostType]) enqueue(state StateType) error {
	if a.algebra.Compare(a.gOf(state), a.rhsOf(state)) == 0 {
		return nil
	}
	queued, err := a.snapshot(state)
	if err != nil {
		return err
	}
	a.openSet.Push(queued)
	return nil
}

// snapshot builds an AD* node for state from its current values, linked to the
// last emitted node of its best predecessor.
func (a *ADStar[StateType, CostType]) snapshot(state StateType) (*node.Node[StateType, CostType], error) {
	transition := node.Origin(state)
	parent := node.NoParent
	if pred, ok := a.bestPred[state]; ok {
		transition = node.NewTransition(pred, state)
		parent = a.emitted[pred].Handle()
	}
	return a.arena.NewADStar(state, transition, parent,
		a.gOf(state), a.rhsOf(state), a.problem.Estimate(state), a.epsilon)
}

func (a *ADStar[StateType, CostType]) gOf(state StateType) CostType {
	if value, ok := a.g[state]; ok {
		return value
	}
	return a.algebra.Infinity()
}

func (a *ADStar[StateType, CostType]) rhsOf(state StateType) CostType {
	if value, ok := a.rhs[state]; ok {
		return value
	}
	return a.algebra.Infinity()
}

func (a *ADStar[StateType, CostType]) fail(err error) (*node.Node[StateType, CostType], bool, error) {
	a.err = err
	return nil, false, err
}

func (a *ADStar[StateType, CostType]) record(err error) error {
	if err != nil {
		a.err = err
	}
	return err
}
