package cost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat64(t *testing.T) {
	algebra := Float64()

	assert.Equal(t, 5.0, algebra.Combine(2, 3))
	assert.Equal(t, 6.0, algebra.Scale(2, 3))
	assert.Negative(t, algebra.Compare(1, 2))
	assert.Zero(t, algebra.Compare(2, 2))
	assert.Equal(t, 0.0, algebra.Identity())
	assert.True(t, math.IsInf(algebra.Infinity(), 1))
	assert.Equal(t, 7.0, algebra.Combine(algebra.Identity(), 7))
}

func TestProbability(t *testing.T) {
	algebra := Probability()

	assert.InDelta(t, 0.45, algebra.Combine(0.9, 0.5), 1e-12)
	assert.InDelta(t, 0.25, algebra.Scale(0.5, 2), 1e-12)
	// higher probability is the better cost
	assert.Negative(t, algebra.Compare(0.9, 0.5))
	assert.Equal(t, 1.0, algebra.Identity())
	assert.Equal(t, 0.0, algebra.Infinity())
	assert.Equal(t, 0.9, Min(algebra, 0.5, 0.9))
}

func TestOrdered(t *testing.T) {
	algebra := Ordered(math.MaxInt)

	assert.Equal(t, 7, algebra.Combine(3, 4))
	assert.Equal(t, 6, algebra.Scale(4, 1.5))
	assert.True(t, Less(algebra, 1, 2))
	assert.False(t, Less(algebra, 2, 2))
	assert.Equal(t, math.MaxInt, algebra.Infinity())
}

func TestFuncs_ScaleDefaultsToIdentity(t *testing.T) {
	algebra := Funcs[string]{
		CombineFunc: func(a, b string) string { return a + b },
		CompareFunc: func(a, b string) int {
			return len(a) - len(b)
		},
	}

	assert.Equal(t, "ab", algebra.Combine("a", "b"))
	assert.Equal(t, "abc", algebra.Scale("abc", 10))
	assert.Equal(t, "a", Min[string](algebra, "a", "bb"))
}
