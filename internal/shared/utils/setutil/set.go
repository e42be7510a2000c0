// Package setutil provides a small generic set for id collections.
package setutil

// Set is an unordered collection of distinct values.
// The zero value is not usable; build one with New.
type Set[T comparable] struct {
	items map[T]struct{}
}

// New returns a set holding the given values.
func New[T comparable](values ...T) Set[T] {
	s := Set[T]{items: make(map[T]struct{}, len(values))}
	for _, v := range values {
		s.items[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Add(v T) {
	s.items[v] = struct{}{}
}

// Has reports membership; it is safe to call on the zero value.
func (s Set[T]) Has(v T) bool {
	_, ok := s.items[v]
	return ok
}

func (s Set[T]) Len() int {
	return len(s.items)
}

// Slice returns the members in no particular order.
func (s Set[T]) Slice() []T {
	out := make([]T, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	return out
}
