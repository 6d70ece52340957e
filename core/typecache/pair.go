package typecache

// Pair is an immutable key/value holder. Its identity is its key: a bucket
// holds at most one Pair per key, and storing a new value for a key
// replaces the whole Pair.
type Pair[K comparable, V any] struct {
	key   K
	value V
}

// NewPair returns a Pair holding key and value.
func NewPair[K comparable, V any](key K, value V) Pair[K, V] {
	return Pair[K, V]{key: key, value: value}
}

// Key returns the pair's key.
func (p Pair[K, V]) Key() K { return p.key }

// Value returns the pair's value.
func (p Pair[K, V]) Value() V { return p.value }
