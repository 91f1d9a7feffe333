package hipster

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdrpinto/hipster/node"
)

// Result contains the outcome of a run.
type Result[StateType comparable, CostType any] struct {
	// Goal is the node that matched the goal state, nil when the sequence exhausted.
	Goal *node.Node[StateType, CostType]
	// Path lists the states from origin to goal; empty when Goal is nil.
	Path       []StateType
	Iterations int
	Elapsed    time.Duration
	RunID      string
}

// Found reports whether the goal was reached.
func (r Result[StateType, CostType]) Found() bool { return r.Goal != nil }

// Search executes a strategy against a goal state.
//
// Every Run, RunWithObserver, Iterator or All call invokes the factory again,
// so a Search may be reused and shared between goroutines as long as the
// underlying problem is read-only.
type Search[StateType comparable, CostType any] struct {
	factory Factory[StateType, CostType]
	goal    StateType
	options Options
}

// New creates a Search pulling from factory until goal is expanded.
func New[StateType comparable, CostType any](
	factory Factory[StateType, CostType],
	goal StateType,
	options ...Option,
) *Search[StateType, CostType] {
	searchOptions := defaultOptions()
	for _, option := range options {
		option(&searchOptions)
	}
	return &Search[StateType, CostType]{
		factory: factory,
		goal:    goal,
		options: searchOptions,
	}
}

// Goal returns the state the search stops at.
func (s *Search[StateType, CostType]) Goal() StateType { return s.goal }

// Run pulls nodes until one reaches the goal state or the strategy exhausts.
//
// An exhausted strategy is not an error: the Result has a nil Goal and an empty
// Path. Strategy errors are returned unchanged. ctx is checked between pulls.
func (s *Search[StateType, CostType]) Run(ctx context.Context) (Result[StateType, CostType], error) {
	runID := uuid.NewString()
	ctx, span := s.options.Tracer.Start(ctx, "hipster.search.run",
		trace.WithAttributes(
			attribute.String("strategy", s.options.Name),
			attribute.String("run_id", runID),
		),
	)
	defer span.End()

	iterator := s.factory()
	result := Result[StateType, CostType]{RunID: runID, Path: []StateType{}}

	// --- Pull loop ---
	startTime := time.Now()
	var err error
	for {
		if err = ctx.Err(); err != nil {
			break
		}
		var expanded *node.Node[StateType, CostType]
		var ok bool
		expanded, ok, err = iterator.Next()
		if err != nil || !ok {
			break
		}
		result.Iterations++
		if expanded.Transition().To() == s.goal {
			result.Goal = expanded
			break
		}
	}
	result.Elapsed = time.Since(startTime)

	// --- Report ---
	outcome := outcomeExhausted
	switch {
	case err != nil:
		outcome = outcomeError
	case result.Found():
		outcome = outcomeFound
		result.Path = result.Goal.States()
	}
	searchRunsTotal.WithLabelValues(s.options.Name, outcome).Inc()
	searchIterations.WithLabelValues(s.options.Name).Observe(float64(result.Iterations))
	searchDuration.WithLabelValues(s.options.Name).Observe(result.Elapsed.Seconds())

	span.SetAttributes(
		attribute.Int("iterations", result.Iterations),
		attribute.Int64("elapsed_us", result.Elapsed.Microseconds()),
		attribute.String("outcome", outcome),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.options.Logger.Warn("search failed",
			slog.String("strategy", s.options.Name),
			slog.String("run_id", runID),
			slog.Int("iterations", result.Iterations),
			slog.String("error", err.Error()),
		)
		return result, err
	}

	s.options.Logger.Debug("search completed",
		slog.String("strategy", s.options.Name),
		slog.String("run_id", runID),
		slog.String("outcome", outcome),
		slog.Int("iterations", result.Iterations),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// OptimalPath runs the search and returns only the path.
//
// Unlike Run, an exhausted strategy is reported as ErrGoalUnreachable.
func (s *Search[StateType, CostType]) OptimalPath(ctx context.Context) ([]StateType, error) {
	result, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	if !result.Found() {
		return nil, fmt.Errorf("%w: %v after %d iterations", ErrGoalUnreachable, s.goal, result.Iterations)
	}
	return result.Path, nil
}

// RunWithObserver drains the whole sequence, goal included and beyond, and
// hands every node to observer in pull order.
func (s *Search[StateType, CostType]) RunWithObserver(
	ctx context.Context,
	observer Observer[StateType, CostType],
) error {
	iterator := s.factory()
	pulled := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		expanded, ok, err := iterator.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		pulled++
		observer.OnNode(expanded)
	}
	s.options.Logger.Debug("observed search drained",
		slog.String("strategy", s.options.Name),
		slog.Int("iterations", pulled),
	)
	return nil
}

// Iterator returns a new raw strategy sequence.
func (s *Search[StateType, CostType]) Iterator() Iterator[StateType, CostType] {
	return s.factory()
}

// All returns the raw strategy output as a range-over-func sequence. A strategy
// error is yielded once as the final pair.
func (s *Search[StateType, CostType]) All() iter.Seq2[*node.Node[StateType, CostType], error] {
	return func(yield func(*node.Node[StateType, CostType], error) bool) {
		iterator := s.factory()
		for {
			expanded, ok, err := iterator.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(expanded, nil) {
				return
			}
		}
	}
}

// IsGoalUnreachable reports whether err means the goal could not be reached.
func IsGoalUnreachable(err error) bool { return errors.Is(err, ErrGoalUnreachable) }
