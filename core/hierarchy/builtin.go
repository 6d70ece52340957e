package hierarchy

import (
	"math/big"
	"sync"

	"github.com/codewandler/typecache/core/typetag"
)

// Number is the abstract root of every numeric type in a builtin registry.
var Number = typetag.Abstract("Number")

var numericTags = []typetag.Tag{
	typetag.For[int](),
	typetag.For[int8](),
	typetag.For[int16](),
	typetag.For[int32](),
	typetag.For[int64](),
	typetag.For[uint](),
	typetag.For[uint8](),
	typetag.For[uint16](),
	typetag.For[uint32](),
	typetag.For[uint64](),
	typetag.For[uintptr](),
	typetag.For[float32](),
	typetag.For[float64](),
	typetag.For[complex64](),
	typetag.For[complex128](),
	typetag.For[big.Int](),
	typetag.For[big.Float](),
	typetag.For[big.Rat](),
}

// NewBuiltinRegistry returns a registry where all Go numeric types,
// including math/big values, extend Number.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, t := range numericTags {
		// numeric tags are distinct and Number has no parent; cannot fail
		_ = r.Declare(t, Number)
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide builtin registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewBuiltinRegistry()
	})
	return defaultRegistry
}
