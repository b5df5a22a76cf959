// Package metrics holds the Prometheus collectors for the webhook receiver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the collectors. A dedicated registry keeps tests isolated
// from the global default registry.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTPRequests counts inbound requests by path, method and status.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration records inbound request durations in seconds.
	HTTPDuration *prometheus.HistogramVec
	// WebhookOutcomes counts processed webhooks by outcome.
	WebhookOutcomes *prometheus.CounterVec
	// UpstreamRequests counts platform API calls by operation and result.
	UpstreamRequests *prometheus.CounterVec
	// UpstreamDuration records platform API latency in seconds.
	UpstreamDuration *prometheus.HistogramVec
	// Notifications counts notification sink deliveries by sink and result.
	Notifications *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"method", "path"},
		),
		WebhookOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "rewardhook_webhook_outcomes_total", Help: "Order webhooks by outcome."},
			[]string{"outcome"},
		),
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "rewardhook_upstream_requests_total", Help: "Commerce platform API calls by operation and result."},
			[]string{"operation", "result"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "rewardhook_upstream_duration_seconds", Help: "Commerce platform API latency in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"operation"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "rewardhook_notifications_total", Help: "Reward notifications by sink and result."},
			[]string{"sink", "result"},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.WebhookOutcomes,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.Notifications,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Result converts an error into the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
