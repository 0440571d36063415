package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the SDK.
type Metrics struct {
	APIRequestsTotal     *prometheus.CounterVec
	APIRequestDuration   *prometheus.HistogramVec
	APIErrors            *prometheus.CounterVec
	WebhookVerifications *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		APIRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easypost_api_requests_total",
				Help: "Total number of EasyPost API requests by method, path, and status",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "easypost_api_request_duration_seconds",
				Help:    "EasyPost API request duration in seconds by method and path",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		APIErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easypost_api_errors_total",
				Help: "Total EasyPost API errors by method and error type",
			},
			[]string{"method", "error_type"},
		),
		WebhookVerifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easypost_webhook_verifications_total",
				Help: "Total webhook signature verifications by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRequest records an API request metric.
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	m.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.APIRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordError records an API error metric.
func (m *Metrics) RecordError(method, errorType string) {
	m.APIErrors.WithLabelValues(method, errorType).Inc()
}

// RecordVerification records a webhook verification outcome.
func (m *Metrics) RecordVerification(outcome string) {
	m.WebhookVerifications.WithLabelValues(outcome).Inc()
}
