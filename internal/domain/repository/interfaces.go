package repository

// Metrics records client-side operational metrics.
type Metrics interface {
	RecordAPIRequest(path, method string, status int)
	RecordCacheEvent(event string)
	RecordForecast(outcome string)
	RecordToast(severity string)
	RecordLatency(op string, seconds float64)
}

// NoopMetrics discards all measurements, for tests and metric-less runs.
type NoopMetrics struct{}

func (NoopMetrics) RecordAPIRequest(string, string, int) {}
func (NoopMetrics) RecordCacheEvent(string)              {}
func (NoopMetrics) RecordForecast(string)                {}
func (NoopMetrics) RecordToast(string)                   {}
func (NoopMetrics) RecordLatency(string, float64)        {}
