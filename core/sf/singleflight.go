package sf

import "golang.org/x/sync/singleflight"

// Group deduplicates concurrent calls that share a key. Only the first
// caller runs fn; the others wait for it and receive the same result.
type Group[T any] struct {
	group singleflight.Group
}

// Do runs fn for key unless a call for key is already in flight, in which
// case it waits for that call. shared reports whether the result was handed
// to more than one caller.
func (g *Group[T]) Do(key string, fn func() (T, error)) (v T, shared bool, err error) {
	out, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		return v, shared, err
	}
	// a nil interface result does not assert to T
	v, _ = out.(T)
	return v, shared, nil
}

// Forget drops key so the next Do for it runs fn again, even if a call is
// still in flight.
func (g *Group[T]) Forget(key string) {
	g.group.Forget(key)
}

// New creates a Group for results of type T.
func New[T any]() *Group[T] {
	return &Group[T]{}
}
