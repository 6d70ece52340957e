// Package ds provides generic data structures.
package ds

import "fmt"

// OrderedMap is a map that remembers insertion order. Lookups are O(1);
// Delete is O(n) in the number of entries. Re-setting an existing key keeps
// its original position.
//
// OrderedMap is not safe for concurrent use.
type OrderedMap[K comparable, V any] struct {
	items map[K]V
	order []K
}

// NewOrderedMap creates an empty map.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{items: make(map[K]V)}
}

func (m *OrderedMap[K, V]) String() string {
	return fmt.Sprintf("%v", m.order)
}

// Get returns the value stored for key.
func (m *OrderedMap[K, V]) Get(key K) (v V, ok bool) {
	v, ok = m.items[key]
	return
}

// Set stores v under key. (mutates)
func (m *OrderedMap[K, V]) Set(key K, v V) {
	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = v
}

// Delete removes key and reports whether it was present. (mutates)
func (m *OrderedMap[K, V]) Delete(key K) bool {
	if _, ok := m.items[key]; !ok {
		return false
	}
	delete(m.items, key)

	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int { return len(m.items) }

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.order))
	copy(out, m.order)
	return out
}

// ForEach calls fn for every entry in insertion order. fn must not mutate m.
func (m *OrderedMap[K, V]) ForEach(fn func(K, V)) {
	for _, k := range m.order {
		fn(k, m.items[k])
	}
}
