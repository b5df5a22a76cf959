// Package rewardhook exposes the second-order gift card webhook receiver as
// an http.Handler that can be mounted in an existing Go server.
package rewardhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	httphandler "github.com/ruudy-sib/rewardhook/internal/adapter/primary/http"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/logsink"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/notifyfanout"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/shopify"
	"github.com/ruudy-sib/rewardhook/internal/config"
	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/domain/service"
	"github.com/ruudy-sib/rewardhook/internal/metrics"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// Receiver handles Shopify orders/create webhooks and rewards second orders.
type Receiver struct {
	handler http.Handler
	client  *shopify.Client
	logger  *zap.Logger
}

// Config holds configuration for a Receiver.
type Config struct {
	// WebhookSecret is the shared secret used to verify X-Shopify-Hmac-Sha256.
	WebhookSecret string

	// AccessToken authenticates Admin API calls.
	AccessToken string

	// ShopDomain is the bare shop host, e.g. my-shop.myshopify.com.
	ShopDomain string

	// APIVersion of the Admin REST API (default 2023-10).
	APIVersion string

	// AdminURL overrides the Admin API root derived from ShopDomain.
	AdminURL string

	// WebhookPath is where the webhook is mounted (default /webhooks/orders/create).
	WebhookPath string

	// Timeout bounds each Admin API call (default 10s).
	Timeout time.Duration

	// GiftCardNote is attached to every issued gift card.
	GiftCardNote string

	// OnReward is called after a gift card is created. Its error is logged
	// and never fails the webhook. If nil, rewards are only logged.
	OnReward func(ctx context.Context, reward Reward) error

	// Logger (if nil, a default logger will be created)
	Logger *zap.Logger
}

// Reward describes a gift card issued for a second order.
type Reward struct {
	ID            string
	OrderID       int64
	CustomerID    int64
	CustomerEmail string
	Code          string
	Amount        string
	IssuedAt      time.Time
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIVersion:   domain.DefaultAPIVersion,
		WebhookPath:  "/webhooks/orders/create",
		Timeout:      domain.DefaultUpstreamTimeout,
		GiftCardNote: domain.DefaultGiftCardNote,
	}
}

// New creates a Receiver. It fails if a required value is missing.
func New(cfg *Config) (*Receiver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	defaults := DefaultConfig()

	// Create logger if not provided
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	// Convert to internal config format
	internalCfg := &config.Config{
		WebhookPath:       firstNonEmpty(cfg.WebhookPath, defaults.WebhookPath),
		WebhookSecret:     cfg.WebhookSecret,
		AccessToken:       cfg.AccessToken,
		ShopDomain:        cfg.ShopDomain,
		APIVersion:        firstNonEmpty(cfg.APIVersion, defaults.APIVersion),
		AdminURL:          cfg.AdminURL,
		UpstreamTimeout:   cfg.Timeout,
		GiftCardNote:      firstNonEmpty(cfg.GiftCardNote, defaults.GiftCardNote),
		NotificationSinks: []string{config.SinkLog},
	}
	if internalCfg.UpstreamTimeout == 0 {
		internalCfg.UpstreamTimeout = defaults.Timeout
	}
	if err := internalCfg.Validate(); err != nil {
		return nil, err
	}

	m := metrics.New()
	client := shopify.NewClient(internalCfg, m, logger)

	var sink secondary.NotificationSink = logsink.NewSink(logger)
	if cfg.OnReward != nil {
		sink = callbackSink{fn: cfg.OnReward}
	}

	webhookService := service.NewWebhookService(
		service.NewSignatureVerifier(internalCfg.WebhookSecret),
		shopify.NewOrderHistory(client),
		shopify.NewGiftCardIssuer(client),
		notifyfanout.NewFanout([]secondary.NotificationSink{sink}, m, logger),
		nil,
		service.Settings{
			GiftCardNote:    internalCfg.GiftCardNote,
			UpstreamTimeout: internalCfg.UpstreamTimeout,
		},
		logger,
	)

	return &Receiver{
		handler: httphandler.NewRouter(internalCfg.WebhookPath, webhookService, nil, m, logger),
		client:  client,
		logger:  logger,
	}, nil
}

// Handler returns the router serving the webhook path, /health and /metrics.
func (r *Receiver) Handler() http.Handler {
	return r.handler
}

// Close releases idle upstream connections.
func (r *Receiver) Close() error {
	r.logger.Info("shutting down rewardhook receiver")
	return r.client.Close()
}

// callbackSink adapts Config.OnReward to the notification sink port.
type callbackSink struct {
	fn func(ctx context.Context, reward Reward) error
}

func (s callbackSink) Name() string { return "callback" }

func (s callbackSink) Notify(ctx context.Context, n entity.RewardNotification) error {
	return s.fn(ctx, Reward{
		ID:            n.ID,
		OrderID:       n.OrderID,
		CustomerID:    n.CustomerID,
		CustomerEmail: n.CustomerEmail,
		Code:          n.Code,
		Amount:        n.Amount,
		IssuedAt:      n.IssuedAt,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
