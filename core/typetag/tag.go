// Package typetag identifies runtime types of keys and values with
// comparable tags. Tags are derived from reflect.Type and cached, or
// declared as abstract names for types that have no Go counterpart
// (e.g. a numeric tower root).
package typetag

import (
	"reflect"
	"sync"
)

// maxCacheSize bounds the reflect.Type -> Tag cache. The number of types
// seen by a program is small, so hitting it just resets the cache.
const maxCacheSize = 1024

var (
	muCache sync.RWMutex
	cache   = make(map[reflect.Type]Tag)
)

// Tag is a comparable type identity. The zero Tag is the universal root,
// the type every other type descends from.
type Tag struct {
	name string
	typ  reflect.Type
}

// Universal returns the universal root tag.
func Universal() Tag { return Tag{} }

// Abstract returns a tag for a named type that has no concrete Go type.
// Two abstract tags with the same name are equal.
func Abstract(name string) Tag { return Tag{name: name} }

// Of returns the tag for the dynamic type of x. Pointers are unwrapped so
// that T and *T share a tag. A nil x yields the universal tag.
func Of(x any) Tag {
	return ForType(reflect.TypeOf(x))
}

// OfExact returns the tag for the dynamic type of x without unwrapping
// pointers, so T and *T get distinct tags.
func OfExact(x any) Tag {
	return ForExactType(reflect.TypeOf(x))
}

// For returns the tag for type parameter T.
func For[T any]() Tag {
	return ForType(reflect.TypeFor[T]())
}

// ForType returns the tag for t. The empty interface maps to the universal
// tag. Results are cached; safe for concurrent use.
func ForType(t reflect.Type) Tag {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return ForExactType(t)
}

// ForExactType is ForType without pointer unwrapping.
func ForExactType(t reflect.Type) Tag {
	if t == nil {
		return Tag{}
	}
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return Tag{}
	}

	muCache.RLock()
	tag, ok := cache[t]
	muCache.RUnlock()
	if ok {
		return tag
	}

	tag = Tag{name: typeName(t), typ: t}

	muCache.Lock()
	if existing, ok := cache[t]; ok {
		muCache.Unlock()
		return existing
	}
	if len(cache) >= maxCacheSize {
		cache = make(map[reflect.Type]Tag)
	}
	cache[t] = tag
	muCache.Unlock()

	return tag
}

func typeName(t reflect.Type) string {
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Name is the fully qualified name: "pkg/path.TypeName" for named package
// types, the bare name for predeclared, unnamed and abstract types.
func (t Tag) Name() string { return t.name }

// Type is the underlying reflect.Type, nil for abstract and universal tags.
func (t Tag) Type() reflect.Type { return t.typ }

// IsUniversal reports whether t is the universal root.
func (t Tag) IsUniversal() bool { return t == Tag{} }

// IsAbstract reports whether t is a named tag without a Go type.
func (t Tag) IsAbstract() bool { return t.typ == nil && t.name != "" }

func (t Tag) String() string {
	if t.IsUniversal() {
		return "any"
	}
	return t.name
}
