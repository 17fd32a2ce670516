package model

// RecordSet is a map with stable insertion-ordered iteration.
//
// Extraction merges records from many pages keyed by intent slug or
// navigation ID, and the assembler must emit them in discovery order.
// Go's built-in map randomizes iteration, so accumulation uses this type
// instead: a key keeps the position of its FIRST insertion even when a
// later page overwrites its value (last-write-wins on value, first-write
// -wins on position).
type RecordSet[T any] struct {
	keys  []string
	items map[string]T
}

// NewRecordSet creates an empty RecordSet.
func NewRecordSet[T any]() *RecordSet[T] {
	return &RecordSet[T]{
		keys:  make([]string, 0),
		items: make(map[string]T),
	}
}

// Put inserts or overwrites the value for key.
// A new key is appended to the iteration order; an existing key keeps its
// original position.
func (s *RecordSet[T]) Put(key string, value T) {
	if _, ok := s.items[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.items[key] = value
}

// Get returns the value for key and whether it exists.
func (s *RecordSet[T]) Get(key string) (T, bool) {
	v, ok := s.items[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (s *RecordSet[T]) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
// The returned slice is a copy and safe to retain.
func (s *RecordSet[T]) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Values returns the values in insertion order.
func (s *RecordSet[T]) Values() []T {
	values := make([]T, 0, len(s.keys))
	for _, k := range s.keys {
		values = append(values, s.items[k])
	}
	return values
}

// Merge applies every entry of other onto s in other's insertion order,
// with Put semantics per key. This is the per-page accumulation step:
// later pages win on key collision.
func (s *RecordSet[T]) Merge(other *RecordSet[T]) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Put(k, other.items[k])
	}
}
