package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/metrics"
	"github.com/ruudy-sib/rewardhook/internal/port/primary"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// NewRouter creates an HTTP router with all application routes registered.
func NewRouter(
	webhookPath string,
	webhookService primary.WebhookService,
	healthChecks []secondary.HealthChecker,
	m *metrics.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(instrument(m))
	r.Use(recoverer(logger.Named("recoverer")))

	// Webhook endpoint; the handler answers non-POST methods itself.
	r.Handle(webhookPath, NewOrderCreatedHandler(webhookService, m, logger))

	// Health check endpoint
	r.Method(http.MethodGet, "/health", NewHealthHandler(healthChecks))

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	return r
}
