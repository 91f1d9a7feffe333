// Package cost abstracts how path costs are accumulated and compared so that any
// totally ordered type can be used as a cost, not only real numbers.
package cost

import (
	"cmp"
	"math"
)

// Algebra combines, scales and orders values of CostType.
//
// Combine must be associative and monotonic with respect to Compare. Nothing in
// this module checks that; priority based strategies simply stop being optimal
// when it does not hold.
type Algebra[CostType any] interface {
	// Combine accumulates two costs (addition for distances).
	Combine(a, b CostType) CostType
	// Scale weights a cost by a numeric factor (used by AD* key inflation).
	Scale(value CostType, factor float64) CostType
	// Compare returns a negative number when a is better than b, zero when they
	// are equivalent and a positive number otherwise.
	Compare(a, b CostType) int
	// Identity is the neutral element of Combine.
	Identity() CostType
	// Infinity is the worst possible cost.
	Infinity() CostType
}

// Funcs is an Algebra backed by plain functions.
type Funcs[CostType any] struct {
	CombineFunc  func(a, b CostType) CostType
	ScaleFunc    func(value CostType, factor float64) CostType
	CompareFunc  func(a, b CostType) int
	IdentityCost CostType
	InfinityCost CostType
}

func (f Funcs[CostType]) Combine(a, b CostType) CostType { return f.CombineFunc(a, b) }

// Scale returns value untouched when no ScaleFunc was supplied.
func (f Funcs[CostType]) Scale(value CostType, factor float64) CostType {
	if f.ScaleFunc == nil {
		return value
	}
	return f.ScaleFunc(value, factor)
}

func (f Funcs[CostType]) Compare(a, b CostType) int { return f.CompareFunc(a, b) }
func (f Funcs[CostType]) Identity() CostType        { return f.IdentityCost }
func (f Funcs[CostType]) Infinity() CostType        { return f.InfinityCost }

// Float64 returns the default real-number algebra: addition, multiplication,
// ascending order, 0 and +Inf.
func Float64() Algebra[float64] {
	return Funcs[float64]{
		CombineFunc:  func(a, b float64) float64 { return a + b },
		ScaleFunc:    func(value float64, factor float64) float64 { return value * factor },
		CompareFunc:  cmp.Compare[float64],
		IdentityCost: 0,
		InfinityCost: math.Inf(1),
	}
}

// Probability returns an algebra over probabilities in [0, 1]: costs are
// composed by multiplication and a higher probability is better.
func Probability() Algebra[float64] {
	return Funcs[float64]{
		CombineFunc: func(a, b float64) float64 { return a * b },
		ScaleFunc:   math.Pow,
		CompareFunc: func(a, b float64) int {
			return cmp.Compare(b, a)
		},
		IdentityCost: 1,
		InfinityCost: 0,
	}
}

// Ordered returns an additive algebra for any ordered numeric type.
func Ordered[CostType interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}](infinity CostType) Algebra[CostType] {
	return Funcs[CostType]{
		CombineFunc: func(a, b CostType) CostType { return a + b },
		ScaleFunc: func(value CostType, factor float64) CostType {
			return CostType(float64(value) * factor)
		},
		CompareFunc:  cmp.Compare[CostType],
		IdentityCost: 0,
		InfinityCost: infinity,
	}
}

// Min returns the better of a and b under algebra. Ties return a.
func Min[CostType any](algebra Algebra[CostType], a, b CostType) CostType {
	if algebra.Compare(b, a) < 0 {
		return b
	}
	return a
}

// Less reports whether a is strictly better than b.
func Less[CostType any](algebra Algebra[CostType], a, b CostType) bool {
	return algebra.Compare(a, b) < 0
}
