package typecache

import "github.com/codewandler/typecache/core/metrics"

// Reasons passed to Metrics.BucketDropped.
const (
	DropEmptied = "emptied"
	DropExpired = "expired"
)

// Metrics observes a Cache. Key types are passed by name. All methods must
// be safe for concurrent use.
type Metrics interface {
	OpDuration(op string) metrics.Timer
	Hit(keyType string)
	Miss(keyType string)
	TypeMismatch(keyType string)
	BucketCreated(keyType string)
	BucketDropped(keyType string, reason string)
	Buckets(count int)
}

type nopMetrics struct{}

func (nopMetrics) OpDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) Hit(string)                      {}
func (nopMetrics) Miss(string)                     {}
func (nopMetrics) TypeMismatch(string)             {}
func (nopMetrics) BucketCreated(string)            {}
func (nopMetrics) BucketDropped(string, string)    {}
func (nopMetrics) Buckets(int)                     {}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }
