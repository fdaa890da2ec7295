package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	apiRequests *prometheus.CounterVec
	cacheEvents *prometheus.CounterVec
	forecasts   *prometheus.CounterVec
	toasts      *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		apiRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_api_requests_total",
				Help: "Total number of backend API requests by path and status",
			},
			[]string{"path", "method", "status"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_cache_events_total",
				Help: "Forecast cache lookups by result",
			},
			[]string{"event"},
		),
		forecasts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_forecasts_total",
				Help: "Forecast invocations by outcome",
			},
			[]string{"outcome"},
		),
		toasts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demandcast_toasts_total",
				Help: "Toast notifications by severity",
			},
			[]string{"severity"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "demandcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAPIRequest records one backend call and its response status.
func (r *Recorder) RecordAPIRequest(path, method string, status int) {
	r.apiRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// RecordCacheEvent records a forecast cache lookup result (hit, miss, evict).
func (r *Recorder) RecordCacheEvent(event string) {
	r.cacheEvents.WithLabelValues(event).Inc()
}

// RecordForecast records a forecast invocation outcome.
func (r *Recorder) RecordForecast(outcome string) {
	r.forecasts.WithLabelValues(outcome).Inc()
}

// RecordToast records a toast notification.
func (r *Recorder) RecordToast(severity string) {
	r.toasts.WithLabelValues(severity).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
