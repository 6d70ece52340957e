package typecache

import (
	"fmt"
	"math"
	"math/cmplx"
	"reflect"

	"github.com/codewandler/typecache/core/typetag"
)

// GetOrLoad returns the value for key, calling load and storing its result
// on a miss. Concurrent misses for the same key share one call to load.
// An error from load, or a *TypeMismatchError from storing its result, is
// returned to every waiting caller and nothing is stored.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	keyType, err := keyTypeOf(key)
	if err != nil {
		var zero V
		return zero, err
	}

	fn := func() (V, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return v, err
		}
		return v, c.Put(key, v)
	}

	flight, ok := flightKey(keyType, key)
	if !ok {
		return fn()
	}
	v, _, err := c.loads.Do(flight, fn)
	return v, err
}

// flightKey renders key so that two keys share a rendering only if they are
// equal map keys. Pointer-like keys compare by address and are rendered by
// address. Keys that are not equal to themselves (NaN) are not deduplicated.
func flightKey(keyType typetag.Tag, key any) (string, bool) {
	rv := reflect.ValueOf(key)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%s|%p", keyType, key), true
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return "", false
		}
	case reflect.Complex64, reflect.Complex128:
		if cmplx.IsNaN(rv.Complex()) {
			return "", false
		}
	}
	return fmt.Sprintf("%s|%#v", keyType, key), true
}
