package hipster

import (
	"github.com/pdrpinto/hipster/node"
)

// StepSnapshot exposes the per-iteration state of a stepped search.
type StepSnapshot[StateType comparable, CostType any] struct {
	Current   *node.Node[StateType, CostType]
	Done      bool
	Found     bool
	Path      []StateType
	StepIndex int
}

// Stepper pulls one node per Step from a single iterator.
//
// Unlike Search it keeps its session: once Done it keeps returning the final
// snapshot. Not safe for concurrent use.
type Stepper[StateType comparable, CostType any] struct {
	iterator Iterator[StateType, CostType]
	goal     StateType

	stepCount int
	last      *node.Node[StateType, CostType]
	path      []StateType
	done      bool
	found     bool
}

// NewStepper starts a step-by-step session on a fresh iterator of search.
func NewStepper[StateType comparable, CostType any](search *Search[StateType, CostType]) *Stepper[StateType, CostType] {
	return &Stepper[StateType, CostType]{
		iterator: search.Iterator(),
		goal:     search.Goal(),
	}
}

// Step advances the search by one node and returns a snapshot.
func (s *Stepper[StateType, CostType]) Step() (StepSnapshot[StateType, CostType], error) {
	if s.done {
		return s.snapshot(), nil
	}
	current, ok, err := s.iterator.Next()
	if err != nil {
		s.done = true
		return s.snapshot(), err
	}
	if !ok {
		s.done = true
		return s.snapshot(), nil
	}

	s.stepCount++
	s.last = current
	if current.Transition().To() == s.goal {
		s.done = true
		s.found = true
		s.path = current.States()
	}
	return s.snapshot(), nil
}

// Done reports whether the session has ended.
func (s *Stepper[StateType, CostType]) Done() bool { return s.done }

func (s *Stepper[StateType, CostType]) snapshot() StepSnapshot[StateType, CostType] {
	return StepSnapshot[StateType, CostType]{
		Current:   s.last,
		Done:      s.done,
		Found:     s.found,
		Path:      s.path,
		StepIndex: s.stepCount,
	}
}
