package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/typecache/core/expiry"
	"github.com/codewandler/typecache/core/metrics"
)

// expiryMetrics implements expiry.Metrics using Prometheus.
type expiryMetrics struct {
	scheduledTotal prometheus.Counter
	pending        prometheus.Gauge
	inflight       prometheus.Gauge
	taskDuration   prometheus.Histogram
	tasksTotal     *prometheus.CounterVec
}

// NewExpiryMetrics creates a new Prometheus implementation of expiry.Metrics.
func NewExpiryMetrics(reg prometheus.Registerer) expiry.Metrics {
	m := &expiryMetrics{
		scheduledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typecache_expiry_scheduled_total",
			Help: "Total number of expiry tasks scheduled",
		}),

		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "typecache_expiry_pending",
			Help: "Number of expiry tasks waiting for their delay",
		}),

		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "typecache_expiry_inflight",
			Help: "Number of expiry tasks currently running",
		}),

		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "typecache_expiry_task_duration_seconds",
			Help:    "Expiry task duration in seconds",
			Buckets: taskBuckets,
		}),

		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "typecache_expiry_tasks_total",
			Help: "Total number of expiry tasks completed",
		}, []string{"success"}),
	}

	reg.MustRegister(
		m.scheduledTotal,
		m.pending,
		m.inflight,
		m.taskDuration,
		m.tasksTotal,
	)

	return m
}

func (m *expiryMetrics) Scheduled() { m.scheduledTotal.Inc() }

func (m *expiryMetrics) Pending(count int) { m.pending.Set(float64(count)) }

func (m *expiryMetrics) Inflight(count int) { m.inflight.Set(float64(count)) }

func (m *expiryMetrics) TaskDuration() metrics.Timer {
	return newTimer(m.taskDuration)
}

func (m *expiryMetrics) TaskCompleted(success bool) {
	m.tasksTotal.WithLabelValues(boolToStr(success)).Inc()
}

var _ expiry.Metrics = (*expiryMetrics)(nil)
