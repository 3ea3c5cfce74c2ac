package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	scansTotal             *prometheus.CounterVec
	sessionsGeneratedTotal prometheus.Counter
	uploadsRejectedTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_attendance_scans_total",
			Help: "Attendance scan attempts by outcome.",
		}, []string{"result"})

		sessionsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campus_attendance_sessions_generated_total",
			Help: "Total number of lecture sessions generated.",
		})

		uploadsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_uploads_rejected_total",
			Help: "Uploads rejected before storage, by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, scansTotal, sessionsGeneratedTotal, uploadsRejectedTotal)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// ScansTotal exposes the attendance scan outcome counter.
func ScansTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return scansTotal
}

// SessionsGenerated exposes the counter for generated lecture sessions.
func SessionsGenerated() prometheus.Counter {
	RegisterMetrics()
	return sessionsGeneratedTotal
}

// UploadsRejected exposes the counter for rejected uploads.
func UploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadsRejectedTotal
}
