package typecache

import (
	"errors"
	"fmt"

	"github.com/codewandler/typecache/core/typetag"
)

var (
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrNilKey           = errors.New("key is nil")
	ErrNilValue         = errors.New("value is nil")
	ErrKeyNotComparable = errors.New("key type is not comparable")
)

// TypeMismatchError is returned by Put when the value's root type differs
// from the root type established for the key's type. It unwraps to
// ErrTypeMismatch.
type TypeMismatchError struct {
	KeyType     typetag.Tag
	ValueType   typetag.Tag
	AllowedRoot typetag.Tag
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"Object of class [%s] not allowable for this Key Type [%s]. Allowed types are [%s] or its sub and super types.",
		e.ValueType, e.KeyType, e.AllowedRoot,
	)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
