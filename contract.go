package hipster

import "github.com/pdrpinto/hipster/node"

// Iterator is the contract between the engine and an expansion strategy.
//
// Next returns the next closed expansion in the strategy's own order. ok ==
// false with a nil error means the sequence is exhausted: origin and goal are
// disconnected. Errors raised by the problem are returned unchanged and end
// the sequence. Iterators are not restartable.
type Iterator[StateType comparable, CostType any] interface {
	Next() (expanded *node.Node[StateType, CostType], ok bool, err error)
}

// Factory returns a new, independent iterator each time it is called.
type Factory[StateType comparable, CostType any] func() Iterator[StateType, CostType]

// Observer receives every node pulled by RunWithObserver, in pull order.
type Observer[StateType comparable, CostType any] interface {
	OnNode(expanded *node.Node[StateType, CostType])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc[StateType comparable, CostType any] func(expanded *node.Node[StateType, CostType])

func (f ObserverFunc[StateType, CostType]) OnNode(expanded *node.Node[StateType, CostType]) {
	f(expanded)
}
