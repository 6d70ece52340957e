package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/typecache/core/metrics"
	"github.com/codewandler/typecache/core/typecache"
)

// cacheMetrics implements typecache.Metrics using Prometheus.
type cacheMetrics struct {
	opDuration     *prometheus.HistogramVec
	lookupsTotal   *prometheus.CounterVec
	mismatches     *prometheus.CounterVec
	bucketsCreated *prometheus.CounterVec
	bucketsDropped *prometheus.CounterVec
	buckets        prometheus.Gauge
}

// NewCacheMetrics creates a new Prometheus implementation of typecache.Metrics.
func NewCacheMetrics(reg prometheus.Registerer) typecache.Metrics {
	m := &cacheMetrics{
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "typecache_op_duration_seconds",
			Help:    "Cache operation latency in seconds",
			Buckets: opBuckets,
		}, []string{"op"}),

		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "typecache_lookups_total",
			Help: "Total number of Get calls by key type and result",
		}, []string{"key_type", "hit"}),

		mismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "typecache_type_mismatches_total",
			Help: "Total number of Put calls rejected by the type rule",
		}, []string{"key_type"}),

		bucketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "typecache_buckets_created_total",
			Help: "Total number of key-type buckets created",
		}, []string{"key_type"}),

		bucketsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "typecache_buckets_dropped_total",
			Help: "Total number of key-type buckets dropped",
		}, []string{"key_type", "reason"}),

		buckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "typecache_buckets",
			Help: "Current number of key-type buckets",
		}),
	}

	reg.MustRegister(
		m.opDuration,
		m.lookupsTotal,
		m.mismatches,
		m.bucketsCreated,
		m.bucketsDropped,
		m.buckets,
	)

	return m
}

func (m *cacheMetrics) OpDuration(op string) metrics.Timer {
	return newTimer(m.opDuration.WithLabelValues(op))
}

func (m *cacheMetrics) Hit(keyType string) {
	m.lookupsTotal.WithLabelValues(keyType, boolToStr(true)).Inc()
}

func (m *cacheMetrics) Miss(keyType string) {
	m.lookupsTotal.WithLabelValues(keyType, boolToStr(false)).Inc()
}

func (m *cacheMetrics) TypeMismatch(keyType string) {
	m.mismatches.WithLabelValues(keyType).Inc()
}

func (m *cacheMetrics) BucketCreated(keyType string) {
	m.bucketsCreated.WithLabelValues(keyType).Inc()
}

func (m *cacheMetrics) BucketDropped(keyType string, reason string) {
	m.bucketsDropped.WithLabelValues(keyType, reason).Inc()
}

func (m *cacheMetrics) Buckets(count int) {
	m.buckets.Set(float64(count))
}

var _ typecache.Metrics = (*cacheMetrics)(nil)
