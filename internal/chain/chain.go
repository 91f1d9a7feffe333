// Package chain walks singly linked ancestry chains without recursion.
package chain

// Walk follows parent links from current until parent reports no predecessor
// and returns the visited elements oldest first.
func Walk[ElementType any](
	current ElementType,
	parent func(ElementType) (ElementType, bool),
) []ElementType {
	path := []ElementType{current}
	for {
		previous, exists := parent(current)
		if !exists {
			break
		}
		path = append(path, previous)
		current = previous
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
