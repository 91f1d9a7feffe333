package node

import "container/heap"

// FrontierItem is one entry of a Frontier.
type FrontierItem[StateType comparable, CostType any] struct {
	Node         *Node[StateType, CostType]
	IndexInQueue int
}

type frontierQueue[StateType comparable, CostType any] struct {
	items []*FrontierItem[StateType, CostType]
	less  LessFunc[StateType, CostType]
}

func (queue frontierQueue[StateType, CostType]) Len() int { return len(queue.items) }
func (queue frontierQueue[StateType, CostType]) Less(i, j int) bool {
	return queue.less(queue.items[i].Node, queue.items[j].Node)
}
func (queue frontierQueue[StateType, CostType]) Swap(i, j int) {
	queue.items[i], queue.items[j] = queue.items[j], queue.items[i]
	queue.items[i].IndexInQueue = i
	queue.items[j].IndexInQueue = j
}

func (queue *frontierQueue[StateType, CostType]) Push(x any) {
	item := x.(*FrontierItem[StateType, CostType])
	item.IndexInQueue = len(queue.items)
	queue.items = append(queue.items, item)
}

func (queue *frontierQueue[StateType, CostType]) Pop() any {
	oldItems := queue.items
	n := len(oldItems)
	item := oldItems[n-1]
	oldItems[n-1] = nil
	queue.items = oldItems[:n-1]
	item.IndexInQueue = -1
	return item
}

// Frontier is a priority queue holding at most one node per state.
type Frontier[StateType comparable, CostType any] struct {
	queue   frontierQueue[StateType, CostType]
	byState map[StateType]*FrontierItem[StateType, CostType]
}

// NewFrontier creates an empty frontier ordered by less.
func NewFrontier[StateType comparable, CostType any](less LessFunc[StateType, CostType]) *Frontier[StateType, CostType] {
	return &Frontier[StateType, CostType]{
		queue:   frontierQueue[StateType, CostType]{less: less},
		byState: make(map[StateType]*FrontierItem[StateType, CostType]),
	}
}

func (f *Frontier[StateType, CostType]) Len() int { return f.queue.Len() }

// Push inserts n, replacing and re-ordering any queued node for the same state.
func (f *Frontier[StateType, CostType]) Push(n *Node[StateType, CostType]) {
	if item, ok := f.byState[n.State()]; ok {
		item.Node = n
		heap.Fix(&f.queue, item.IndexInQueue)
		return
	}
	item := &FrontierItem[StateType, CostType]{Node: n}
	heap.Push(&f.queue, item)
	f.byState[n.State()] = item
}

// Pop removes and returns the first node.
func (f *Frontier[StateType, CostType]) Pop() (*Node[StateType, CostType], bool) {
	if f.queue.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&f.queue).(*FrontierItem[StateType, CostType])
	delete(f.byState, item.Node.State())
	return item.Node, true
}

// Peek returns the first node without removing it.
func (f *Frontier[StateType, CostType]) Peek() (*Node[StateType, CostType], bool) {
	if f.queue.Len() == 0 {
		return nil, false
	}
	return f.queue.items[0].Node, true
}

// Lookup returns the queued node for state.
func (f *Frontier[StateType, CostType]) Lookup(state StateType) (*Node[StateType, CostType], bool) {
	item, ok := f.byState[state]
	if !ok {
		return nil, false
	}
	return item.Node, true
}

// Remove drops the queued node for state, if any.
func (f *Frontier[StateType, CostType]) Remove(state StateType) bool {
	item, ok := f.byState[state]
	if !ok {
		return false
	}
	heap.Remove(&f.queue, item.IndexInQueue)
	delete(f.byState, state)
	return true
}

// Reorder restores heap order after the less function's inputs changed.
func (f *Frontier[StateType, CostType]) Reorder() { heap.Init(&f.queue) }

// Nodes returns the queued nodes in heap order (not sorted).
func (f *Frontier[StateType, CostType]) Nodes() []*Node[StateType, CostType] {
	nodes := make([]*Node[StateType, CostType], 0, len(f.queue.items))
	for _, item := range f.queue.items {
		nodes = append(nodes, item.Node)
	}
	return nodes
}
