package main

import (
	"context"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	httphandler "github.com/ruudy-sib/rewardhook/internal/adapter/primary/http"
	"github.com/ruudy-sib/rewardhook/internal/adapter/primary/worker"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/emailsender"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/kafkaproducer"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/logsink"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/notifyfanout"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/redisstore"
	"github.com/ruudy-sib/rewardhook/internal/adapter/secondary/shopify"
	"github.com/ruudy-sib/rewardhook/internal/config"
	"github.com/ruudy-sib/rewardhook/internal/domain/service"
	"github.com/ruudy-sib/rewardhook/internal/metrics"
	"github.com/ruudy-sib/rewardhook/internal/port/primary"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// sinkParams collects the optional infrastructure a notification sink may need.
type sinkParams struct {
	dig.In
	Config   *config.Config
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Queue    *redisstore.NotificationQueue `optional:"true"`
	Producer *kafkaproducer.Producer       `optional:"true"`
}

// webhookServiceParams resolves the webhook service; the claim store only
// exists when the dedup guard is enabled.
type webhookServiceParams struct {
	dig.In
	Config   *config.Config
	Orders   secondary.OrderHistory
	Issuer   secondary.RewardIssuer
	Notifier secondary.NotificationSink
	Claims   secondary.RewardClaimStore `optional:"true"`
	Logger   *zap.Logger
}

// healthParams gathers the health checks of whichever backends are in use.
type healthParams struct {
	dig.In
	Redis *goredis.Client `optional:"true"`
}

func buildContainer(ctx context.Context, cfg *config.Config) (*dig.Container, error) {
	c := dig.New()

	// --- Configuration ---
	if err := c.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}

	// --- Logger & metrics ---
	if err := c.Provide(newLogger); err != nil {
		return nil, err
	}
	if err := c.Provide(metrics.New); err != nil {
		return nil, err
	}

	// --- Secondary Adapters (infrastructure) ---

	// Shopify Admin API client, order lookup and gift card issuer
	if err := c.Provide(shopify.NewClient); err != nil {
		return nil, err
	}
	if err := c.Provide(shopify.NewOrderHistory); err != nil {
		return nil, err
	}
	if err := c.Provide(shopify.NewGiftCardIssuer); err != nil {
		return nil, err
	}

	if cfg.RedisEnabled() {
		// Redis client
		if err := c.Provide(func(cfg *config.Config, logger *zap.Logger) (*goredis.Client, error) {
			return redisstore.NewClient(ctx, cfg, logger)
		}); err != nil {
			return nil, err
		}

		// Pending notification queue (sink on the write side, queue on the read side)
		if err := c.Provide(func(client *goredis.Client, logger *zap.Logger) *redisstore.NotificationQueue {
			return redisstore.NewNotificationQueue(client, logger)
		}); err != nil {
			return nil, err
		}
	}

	if cfg.DedupEnabled {
		if err := c.Provide(func(client *goredis.Client, cfg *config.Config, logger *zap.Logger) secondary.RewardClaimStore {
			return redisstore.NewRewardClaims(client, cfg.DedupTTL, logger)
		}); err != nil {
			return nil, err
		}
	}

	if cfg.HasSink(config.SinkKafka) {
		if err := c.Provide(kafkaproducer.NewProducer); err != nil {
			return nil, err
		}
	}

	// Notification sink: every configured sink behind a fan-out
	if err := c.Provide(func(p sinkParams) secondary.NotificationSink {
		var sinks []secondary.NotificationSink
		for _, name := range p.Config.NotificationSinks {
			switch name {
			case config.SinkLog:
				sinks = append(sinks, logsink.NewSink(p.Logger))
			case config.SinkRedis:
				sinks = append(sinks, p.Queue)
			case config.SinkKafka:
				sinks = append(sinks, p.Producer)
			}
		}
		return notifyfanout.NewFanout(sinks, p.Metrics, p.Logger)
	}); err != nil {
		return nil, err
	}

	// Collect all health checks
	if err := c.Provide(func(p healthParams) []secondary.HealthChecker {
		var checks []secondary.HealthChecker
		if p.Redis != nil {
			checks = append(checks, redisstore.NewHealthCheck(p.Redis))
		}
		return checks
	}); err != nil {
		return nil, err
	}

	// --- Domain Services ---

	if err := c.Provide(func(p webhookServiceParams) *service.WebhookService {
		return service.NewWebhookService(
			service.NewSignatureVerifier(p.Config.WebhookSecret),
			p.Orders,
			p.Issuer,
			p.Notifier,
			p.Claims,
			service.Settings{
				GiftCardNote:    p.Config.GiftCardNote,
				UpstreamTimeout: p.Config.UpstreamTimeout,
			},
			p.Logger,
		)
	}); err != nil {
		return nil, err
	}

	// Bind concrete WebhookService to the primary port interface
	if err := c.Provide(func(s *service.WebhookService) primary.WebhookService {
		return s
	}); err != nil {
		return nil, err
	}

	// --- Primary Adapters ---

	// HTTP router
	if err := c.Provide(func(
		cfg *config.Config,
		svc primary.WebhookService,
		checks []secondary.HealthChecker,
		m *metrics.Metrics,
		logger *zap.Logger,
	) http.Handler {
		return httphandler.NewRouter(cfg.WebhookPath, svc, checks, m, logger)
	}); err != nil {
		return nil, err
	}

	if cfg.EmailEnabled() {
		// Email sender and the worker draining the pending queue
		if err := c.Provide(emailsender.NewSender); err != nil {
			return nil, err
		}
		if err := c.Provide(func(queue *redisstore.NotificationQueue, sender *emailsender.Sender, logger *zap.Logger) primary.NotificationDispatcher {
			return service.NewNotificationService(queue, sender, logger)
		}); err != nil {
			return nil, err
		}
		if err := c.Provide(func(d primary.NotificationDispatcher, cfg *config.Config, logger *zap.Logger) *worker.Worker {
			return worker.NewWorker(d, cfg.PollInterval, logger)
		}); err != nil {
			return nil, err
		}
	}

	return c, nil
}
