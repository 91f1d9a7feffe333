package node

import "github.com/pdrpinto/hipster/cost"

// LessFunc reports whether a should be expanded before b.
type LessFunc[StateType comparable, CostType any] func(a, b *Node[StateType, CostType]) bool

// ByPriority orders nodes by F under algebra, breaking ties by creation order
// so that identical inputs always expand identically.
func ByPriority[StateType comparable, CostType any](algebra cost.Algebra[CostType]) LessFunc[StateType, CostType] {
	return func(a, b *Node[StateType, CostType]) bool {
		if c := algebra.Compare(a.f, b.f); c != 0 {
			return c < 0
		}
		return a.handle < b.handle
	}
}

// ByKey orders AD* nodes lexicographically by key, then by creation order.
func ByKey[StateType comparable, CostType any](algebra cost.Algebra[CostType]) LessFunc[StateType, CostType] {
	return func(a, b *Node[StateType, CostType]) bool {
		if c := CompareKeys(algebra, a.key, b.key); c != 0 {
			return c < 0
		}
		return a.handle < b.handle
	}
}

// CompareKeys compares two AD* keys lexicographically.
func CompareKeys[CostType any](algebra cost.Algebra[CostType], a, b Key[CostType]) int {
	if c := algebra.Compare(a.Primary, b.Primary); c != 0 {
		return c
	}
	return algebra.Compare(a.Secondary, b.Secondary)
}
