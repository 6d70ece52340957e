package typecache

import (
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/codewandler/typecache/core/ds"
	"github.com/codewandler/typecache/core/expiry"
	"github.com/codewandler/typecache/core/hierarchy"
	"github.com/codewandler/typecache/core/sf"
	"github.com/codewandler/typecache/core/typetag"
)

// Cache partitions its pairs into buckets by the runtime type of the key.
// See the package documentation for the type rules and expiry behavior.
//
// Lock order is always c.mu before a bucket's mu.
type Cache[K comparable, V any] struct {
	log       *slog.Logger
	roots     *hierarchy.Registry
	scheduler expiry.Scheduler
	expiry    time.Duration
	expiryFor func(typetag.Tag) time.Duration
	metrics   Metrics
	newID     func() string
	loads     *sf.Group[V]

	mu      sync.RWMutex
	buckets *ds.OrderedMap[typetag.Tag, *bucket[K, V]]
}

// New creates an empty cache.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.scheduler == nil {
		cfg.scheduler = expiry.Default()
	}
	if cfg.roots == nil {
		cfg.roots = hierarchy.Default()
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}
	if cfg.metrics == nil {
		cfg.metrics = NopMetrics()
	}

	return &Cache[K, V]{
		log:       cfg.log.With(slog.String("component", "typecache")),
		roots:     cfg.roots,
		scheduler: cfg.scheduler,
		expiry:    cfg.expiry,
		expiryFor: cfg.expiryFor,
		metrics:   cfg.metrics,
		newID:     cfg.newID,
		loads:     sf.New[V](),
		buckets:   ds.NewOrderedMap[typetag.Tag, *bucket[K, V]](),
	}
}

// Get returns the value stored for key.
func (c *Cache[K, V]) Get(key K) (v V, ok bool) {
	defer c.metrics.OpDuration("get").ObserveDuration()

	keyType, err := keyTypeOf(key)
	if err != nil {
		return v, false
	}

	b, ok := c.lookup(keyType)
	if ok {
		v, ok = b.getEntry(key)
	}
	if ok {
		c.metrics.Hit(keyType.Name())
	} else {
		c.metrics.Miss(keyType.Name())
	}
	return v, ok
}

// Put stores value under key, replacing any previous value for key.
//
// The first Put for a key type creates its bucket and fixes the bucket's
// root type to the root of value's type. Later values for keys of that type
// must share that root, or Put returns a *TypeMismatchError and leaves the
// cache unchanged.
func (c *Cache[K, V]) Put(key K, value V) error {
	defer c.metrics.OpDuration("put").ObserveDuration()

	keyType, err := keyTypeOf(key)
	if err != nil {
		return err
	}
	if isNil(value) {
		return ErrNilValue
	}

	for {
		b, created := c.bucketFor(keyType, key, value)
		if created {
			return nil
		}
		if !b.matchesRoot(value) {
			c.metrics.TypeMismatch(keyType.Name())
			return &TypeMismatchError{
				KeyType:     keyType,
				ValueType:   typetag.Of(value),
				AllowedRoot: b.valueRoot,
			}
		}
		if b.addEntry(key, value) {
			return nil
		}
		// b was dropped between lookup and write; retry against whatever
		// bucket is registered now
	}
}

// Remove deletes the pair for key and reports whether it existed. When the
// last pair of a key type is removed, its bucket is dropped and the type
// constraint for that key type is reset.
func (c *Cache[K, V]) Remove(key K) bool {
	defer c.metrics.OpDuration("remove").ObserveDuration()

	keyType, err := keyTypeOf(key)
	if err != nil {
		return false
	}

	for {
		b, ok := c.lookup(keyType)
		if !ok {
			return false
		}
		removed, live := b.removeEntry(key)
		if !live {
			continue
		}
		if b.isEmpty() {
			c.dropIfEmpty(b)
		}
		return removed
	}
}

// Len returns the number of pairs across all buckets.
func (c *Cache[K, V]) Len() (n int) {
	for _, b := range c.snapshot() {
		n += b.size()
	}
	return n
}

// KeyTypes returns the key types that currently have a bucket, in bucket
// creation order.
func (c *Cache[K, V]) KeyTypes() []typetag.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buckets.Keys()
}

func (c *Cache[K, V]) lookup(keyType typetag.Tag) (*bucket[K, V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buckets.Get(keyType)
}

func (c *Cache[K, V]) snapshot() []*bucket[K, V] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*bucket[K, V], 0, c.buckets.Len())
	c.buckets.ForEach(func(_ typetag.Tag, b *bucket[K, V]) {
		out = append(out, b)
	})
	return out
}

// bucketFor returns the bucket registered for keyType. If there is none, it
// creates one holding the pair (key, value), registers it, schedules its
// expiry and reports created.
func (c *Cache[K, V]) bucketFor(keyType typetag.Tag, key K, value V) (b *bucket[K, V], created bool) {
	if b, ok := c.lookup(keyType); ok {
		return b, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.buckets.Get(keyType); ok {
		return b, false
	}

	ttl := c.expiry
	if c.expiryFor != nil {
		if d := c.expiryFor(keyType); d > 0 {
			ttl = d
		}
	}

	root := c.roots.Root(typetag.Of(value))
	b = newBucket[K, V](c.newID(), keyType, root, c.roots, ttl)
	b.pairs[key] = NewPair(key, value)
	c.buckets.Set(keyType, b)
	c.scheduler.Schedule(ttl, func() { c.expire(b) })

	c.metrics.BucketCreated(keyType.Name())
	c.metrics.Buckets(c.buckets.Len())
	c.log.Debug(
		"bucket created",
		slog.String("bucket", b.id),
		slog.String("key_type", keyType.String()),
		slog.String("value_root", root.String()),
		slog.Duration("ttl", ttl),
	)

	return b, true
}

// dropIfEmpty unregisters b if it is still registered and still empty. A
// Put may have refilled it since the caller saw it empty.
func (c *Cache[K, V]) dropIfEmpty(b *bucket[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.buckets.Get(b.keyType); !ok || cur != b {
		return
	}
	if !b.killIfEmpty() {
		return
	}
	c.unregisterLocked(b, DropEmptied)
}

// expire is run by the scheduler when b's lifetime is over. It drops b
// whatever it holds; a bucket that was already dropped, and possibly
// replaced by a newer one for the same key type, is left alone.
func (c *Cache[K, V]) expire(b *bucket[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.buckets.Get(b.keyType); !ok || cur != b {
		c.log.Debug("expired bucket already gone", slog.String("bucket", b.id))
		return
	}
	b.kill()
	c.unregisterLocked(b, DropExpired)
}

func (c *Cache[K, V]) unregisterLocked(b *bucket[K, V], reason string) {
	c.buckets.Delete(b.keyType)
	c.metrics.BucketDropped(b.keyType.Name(), reason)
	c.metrics.Buckets(c.buckets.Len())
	c.log.Debug(
		"bucket dropped",
		slog.String("bucket", b.id),
		slog.String("key_type", b.keyType.String()),
		slog.String("reason", reason),
	)
}

// keyTypeOf returns the exact dynamic type of key: T and *T keys are kept in
// separate buckets.
func keyTypeOf(key any) (typetag.Tag, error) {
	if isNil(key) {
		return typetag.Tag{}, ErrNilKey
	}
	if !reflect.TypeOf(key).Comparable() {
		return typetag.Tag{}, ErrKeyNotComparable
	}
	return typetag.OfExact(key), nil
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	switch v := reflect.ValueOf(x); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
