// Package prometheus provides Prometheus implementations of the cache and
// expiry scheduler metrics interfaces.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/typecache/core/metrics"
)

// timer wraps a Prometheus observer to implement the Timer interface.
type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// Cache operations take micro- rather than milliseconds.
var opBuckets = []float64{
	.000001, .0000025, .000005, .00001, .000025, .00005, .0001, .00025, .0005, .001, .01,
}

// Expiry tasks take the cache lock once; slow ones mean contention.
var taskBuckets = []float64{
	.00001, .0001, .001, .0025, .005, .01, .025, .05, .1, .25, 1,
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// AllMetrics holds the cache and scheduler metrics registered on one
// registry.
type AllMetrics struct {
	Cache  *cacheMetrics
	Expiry *expiryMetrics
}

// NewAllMetrics registers cache and scheduler metrics on reg.
func NewAllMetrics(reg prometheus.Registerer) *AllMetrics {
	return &AllMetrics{
		Cache:  NewCacheMetrics(reg).(*cacheMetrics),
		Expiry: NewExpiryMetrics(reg).(*expiryMetrics),
	}
}
