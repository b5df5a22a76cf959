package http

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/metrics"
	"github.com/ruudy-sib/rewardhook/internal/port/primary"
)

// OrderCreatedHandler handles POST deliveries of the orders/create webhook.
type OrderCreatedHandler struct {
	service primary.WebhookService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewOrderCreatedHandler creates a handler for order webhooks.
func NewOrderCreatedHandler(service primary.WebhookService, m *metrics.Metrics, logger *zap.Logger) *OrderCreatedHandler {
	return &OrderCreatedHandler{
		service: service,
		metrics: m,
		logger:  logger.Named("order-created-handler"),
	}
}

// ServeHTTP verifies and processes one webhook delivery. Every non-2xx
// answer is safe for the platform to retry.
func (h *OrderCreatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.record("method_not_allowed")
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	// The signature covers the exact bytes on the wire, so the body is
	// read raw and never re-encoded before verification.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, domain.MaxWebhookBodyBytes))
	if err != nil {
		h.record("invalid_body")
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unable to read request body"})
		return
	}

	outcome, err := h.service.HandleOrderCreated(r.Context(), entity.WebhookEnvelope{
		Body:      body,
		Signature: r.Header.Get(domain.SignatureHeader),
		Topic:     r.Header.Get(domain.TopicHeader),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.record(string(outcome.Kind))
	respondJSON(w, http.StatusOK, fromOutcome(outcome))
}

func (h *OrderCreatedHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		h.record("unauthorized")
		h.logger.Warn("rejected webhook with invalid signature")
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized webhook"})

	case errors.Is(err, domain.ErrInvalidPayload):
		h.record("invalid_payload")
		h.logger.Warn("rejected webhook with invalid payload", zap.Error(err))
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid order payload"})

	case errors.Is(err, domain.ErrRewardIssueFailed):
		h.record("issue_failed")
		h.logger.Error("gift card issuance failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})

	default:
		h.record("error")
		h.logger.Error("webhook processing error", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Message: "unexpected error while processing webhook",
		})
	}
}

func (h *OrderCreatedHandler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.WebhookOutcomes.WithLabelValues(outcome).Inc()
	}
}
