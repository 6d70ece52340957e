// Package metrics provides backend-neutral instrumentation primitives so
// that the cache and its scheduler can be observed without importing a
// specific metrics library. See adapters/prometheus for an implementation.
package metrics

// Timer measures one operation. Call ObserveDuration when it completes:
//
//	defer m.OpDuration("put").ObserveDuration()
type Timer interface {
	ObserveDuration()
}
