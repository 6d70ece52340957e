// Package hierarchy keeps an explicit parent table between type tags and
// resolves the root type of a tag: the highest declared ancestor strictly
// below the universal root.
//
// Go has no class inheritance, so "is a subtype of" is data, not
// introspection. Relations are declared by tag, by type parameter, or from
// a chain of embedded structs:
//
//	reg := hierarchy.NewRegistry()
//	_ = hierarchy.DeclareEmbedded[Square](reg) // Square -> Rectangle -> Shape
//	reg.Root(typetag.For[Square]())            // Shape
package hierarchy

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/codewandler/typecache/core/typetag"
)

// Registry maps each tag to at most one parent. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parents map[typetag.Tag]typetag.Tag
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parents: make(map[typetag.Tag]typetag.Tag)}
}

// Declare records parent as the direct ancestor of child. Declaring the
// same relation twice is a no-op.
func (r *Registry) Declare(child, parent typetag.Tag) error {
	if child.IsUniversal() {
		return fmt.Errorf("%w: cannot declare a parent for %s", ErrUniversalChild, child)
	}
	if parent.IsUniversal() {
		// every type already descends from the universal root
		return nil
	}
	if child == parent {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, child, parent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.parents[child]; ok {
		if existing == parent {
			return nil
		}
		return fmt.Errorf("%w: %s already extends %s, not %s", ErrConflictingParent, child, existing, parent)
	}

	for cur, ok := parent, true; ok; cur, ok = r.parents[cur] {
		if cur == child {
			return fmt.Errorf("%w: %s -> %s", ErrCycle, child, parent)
		}
	}

	r.parents[child] = parent
	return nil
}

// Parent returns the declared direct ancestor of t.
func (r *Registry) Parent(t typetag.Tag) (typetag.Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parents[t]
	return p, ok
}

// Ancestors returns the declared ancestors of t, nearest first. The
// universal root is never included.
func (r *Registry) Ancestors(t typetag.Tag) []typetag.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []typetag.Tag
	for p, ok := r.parents[t]; ok; p, ok = r.parents[p] {
		out = append(out, p)
	}
	return out
}

// Root walks the ancestor chain of t and returns the last ancestor before
// the universal root. A tag without a declared parent is its own root.
// Root is recomputed on every call.
func (r *Registry) Root(t typetag.Tag) typetag.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root := t
	for p, ok := r.parents[root]; ok; p, ok = r.parents[root] {
		root = p
	}
	return root
}

// SameRoot reports whether a and b resolve to the same root.
func (r *Registry) SameRoot(a, b typetag.Tag) bool {
	return r.Root(a) == r.Root(b)
}

// Declare records Parent as the direct ancestor of Child.
func Declare[Child, Parent any](r *Registry) error {
	return r.Declare(typetag.For[Child](), typetag.For[Parent]())
}

// DeclareEmbedded follows T's chain of first embedded struct fields and
// declares each link, so that
//
//	type Rectangle struct{ Shape; W, H int }
//	type Square struct{ Rectangle }
//
// yields Square -> Rectangle -> Shape. Only the first field of a struct is
// considered, and only when it is embedded.
func DeclareEmbedded[T any](r *Registry) error {
	t := reflect.TypeFor[T]()
	for {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct || t.NumField() == 0 {
			return nil
		}
		f := t.Field(0)
		if !f.Anonymous {
			return nil
		}
		if err := r.Declare(typetag.ForType(t), typetag.ForType(f.Type)); err != nil {
			return err
		}
		t = f.Type
	}
}
