package primary

import (
	"context"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

// WebhookService defines the primary port for processing inbound order
// webhooks, exposed to driving adapters (HTTP handlers, CLI, etc.).
type WebhookService interface {
	// HandleOrderCreated verifies the envelope and rewards the customer's
	// second order. Errors wrap the sentinels in the domain package.
	HandleOrderCreated(ctx context.Context, envelope entity.WebhookEnvelope) (*entity.Outcome, error)
}
