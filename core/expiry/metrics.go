package expiry

import "github.com/codewandler/typecache/core/metrics"

// Metrics observes a Pool. Implementations must be safe for concurrent use.
type Metrics interface {
	Scheduled()
	Pending(count int)
	Inflight(count int)
	TaskDuration() metrics.Timer
	TaskCompleted(success bool)
}

type nopMetrics struct{}

func (nopMetrics) Scheduled()                  {}
func (nopMetrics) Pending(int)                 {}
func (nopMetrics) Inflight(int)                {}
func (nopMetrics) TaskDuration() metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) TaskCompleted(bool)          {}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }
