// Package typecache provides an in-process key/value cache that enforces a
// type rule per key type and expires whole key types at once.
//
// # Type rule
//
// Pairs are grouped into buckets by the runtime type of their key. The
// first value stored for a key type fixes the bucket's root type: the
// highest ancestor of the value's type as declared in a
// [hierarchy.Registry], or the type itself when it has none. Every later
// value for a key of that type must resolve to the same root, otherwise
// [Cache.Put] fails with a [*TypeMismatchError] and nothing changes.
//
//	reg := hierarchy.NewBuiltinRegistry()
//	_ = hierarchy.DeclareEmbedded[Square](reg) // Square -> Rectangle -> Shape
//
//	c := typecache.New[any, any](typecache.WithHierarchy(reg))
//	_ = c.Put(ShapeKey{1}, Rectangle{})  // bucket for ShapeKey, root Shape
//	_ = c.Put(ShapeKey{2}, Square{})     // ok, root Shape
//	err := c.Put(ShapeKey{3}, "nope")    // *TypeMismatchError
//
// Only roots are compared. With the builtin registry every numeric type
// resolves to the abstract root Number, so once an int value is stored for
// string keys, float64 and *big.Int values are accepted too.
//
// # Resetting the rule
//
// Removing the last pair of a key type drops its bucket; the next Put for
// that key type starts a new bucket and may establish a different root.
//
// # Expiry
//
// Each bucket is scheduled to expire once, a fixed delay after it was
// created ([WithExpiry], default [DefaultExpiry], optionally per key type
// via [WithExpiryFor]). When the delay elapses the whole bucket is dropped,
// including pairs stored after its creation: later Puts do not extend its
// life. Expiry runs on an [expiry.Scheduler], by default the process-wide
// [expiry.Default] pool.
//
// # Concurrency
//
// A Cache is safe for concurrent use. A read/write lock guards the set of
// buckets and each bucket has its own lock for its pairs, so operations on
// different key types only contend when a bucket is created or dropped.
package typecache
