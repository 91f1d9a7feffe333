package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalk(t *testing.T) {
	parents := map[int]int{3: 2, 2: 1}
	parent := func(i int) (int, bool) {
		p, ok := parents[i]
		return p, ok
	}

	assert.Equal(t, []int{1, 2, 3}, Walk(3, parent))
	assert.Equal(t, []int{1}, Walk(1, parent))
}

func TestWalk_Deep(t *testing.T) {
	const depth = 200000
	parent := func(i int) (int, bool) { return i - 1, i > 0 }

	path := Walk(depth, parent)

	assert.Len(t, path, depth+1)
	assert.Equal(t, 0, path[0])
	assert.Equal(t, depth, path[depth])
}
