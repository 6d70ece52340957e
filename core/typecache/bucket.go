package typecache

import (
	"sync"
	"time"

	"github.com/codewandler/typecache/core/hierarchy"
	"github.com/codewandler/typecache/core/typetag"
)

// bucket holds every pair whose key has the runtime type keyType. The
// fields above mu are fixed at creation and read without locking.
type bucket[K comparable, V any] struct {
	id        string
	keyType   typetag.Tag
	valueRoot typetag.Tag
	roots     *hierarchy.Registry
	createdAt time.Time
	expiresAt time.Time

	mu    sync.RWMutex
	pairs map[K]Pair[K, V]
	// dead is set once the bucket is unregistered from its cache. A dead
	// bucket rejects writes so that no pair outlives its bucket.
	dead bool
}

func newBucket[K comparable, V any](id string, keyType, valueRoot typetag.Tag, roots *hierarchy.Registry, ttl time.Duration) *bucket[K, V] {
	now := time.Now()
	return &bucket[K, V]{
		id:        id,
		keyType:   keyType,
		valueRoot: valueRoot,
		roots:     roots,
		createdAt: now,
		expiresAt: now.Add(ttl),
		pairs:     make(map[K]Pair[K, V]),
	}
}

// matchesRoot reports whether value shares the bucket's root type.
func (b *bucket[K, V]) matchesRoot(value V) bool {
	return b.roots.Root(typetag.Of(value)) == b.valueRoot
}

// addEntry inserts or replaces the pair for key. It returns false if the
// bucket is dead.
func (b *bucket[K, V]) addEntry(key K, value V) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dead {
		return false
	}
	b.pairs[key] = NewPair(key, value)
	return true
}

func (b *bucket[K, V]) getEntry(key K) (v V, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.dead {
		return v, false
	}
	p, ok := b.pairs[key]
	if !ok {
		return v, false
	}
	return p.Value(), true
}

// removeEntry deletes the pair for key and reports whether it existed. live
// is false if the bucket was already dead, in which case nothing happened.
func (b *bucket[K, V]) removeEntry(key K) (removed, live bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dead {
		return false, false
	}
	_, removed = b.pairs[key]
	delete(b.pairs, key)
	return removed, true
}

func (b *bucket[K, V]) isEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.pairs) == 0
}

func (b *bucket[K, V]) size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.pairs)
}

// kill marks the bucket dead. Callers hold the cache lock.
func (b *bucket[K, V]) kill() {
	b.mu.Lock()
	b.dead = true
	b.mu.Unlock()
}

// killIfEmpty marks the bucket dead only if it holds no pairs. Callers hold
// the cache lock.
func (b *bucket[K, V]) killIfEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pairs) > 0 {
		return false
	}
	b.dead = true
	return true
}
