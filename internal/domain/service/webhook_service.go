package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// Settings tunes the webhook service.
type Settings struct {
	// GiftCardNote is attached to every issued gift card.
	GiftCardNote string

	// UpstreamTimeout bounds each call to the commerce platform.
	UpstreamTimeout time.Duration
}

// WebhookService verifies order webhooks and rewards second orders.
type WebhookService struct {
	verifier *SignatureVerifier
	orders   secondary.OrderHistory
	issuer   secondary.RewardIssuer
	notifier secondary.NotificationSink
	claims   secondary.RewardClaimStore
	settings Settings
	now      func() time.Time
	logger   *zap.Logger
}

// NewWebhookService creates a WebhookService with its dependencies injected.
// claims may be nil, in which case redelivered webhooks are not deduplicated.
func NewWebhookService(
	verifier *SignatureVerifier,
	orders secondary.OrderHistory,
	issuer secondary.RewardIssuer,
	notifier secondary.NotificationSink,
	claims secondary.RewardClaimStore,
	settings Settings,
	logger *zap.Logger,
) *WebhookService {
	if settings.GiftCardNote == "" {
		settings.GiftCardNote = domain.DefaultGiftCardNote
	}
	if settings.UpstreamTimeout <= 0 {
		settings.UpstreamTimeout = domain.DefaultUpstreamTimeout
	}
	return &WebhookService{
		verifier: verifier,
		orders:   orders,
		issuer:   issuer,
		notifier: notifier,
		claims:   claims,
		settings: settings,
		now:      time.Now,
		logger:   logger.Named("webhook-service"),
	}
}

// HandleOrderCreated runs the verify, lookup, reward and notify sequence for
// one delivery.
func (s *WebhookService) HandleOrderCreated(ctx context.Context, envelope entity.WebhookEnvelope) (*entity.Outcome, error) {
	if !s.verifier.Verify(envelope.Body, envelope.Signature) {
		return nil, domain.ErrUnauthorized
	}

	order, err := entity.ParseOrder(envelope.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	logger := s.logger.With(
		zap.Int64("order_id", order.ID),
		zap.String("topic", envelope.Topic),
	)

	if !order.HasCustomer() {
		logger.Info("order has no customer, ignoring")
		return &entity.Outcome{Kind: entity.OutcomeNoCustomer}, nil
	}

	logger = logger.With(zap.String("customer_id", order.Customer.ID.String()))

	count := s.countOrders(ctx, order.Customer, logger)
	logger.Info("customer order count", zap.Int("order_count", count))

	if count != domain.QualifyingOrderCount {
		return &entity.Outcome{Kind: entity.OutcomeNoAction, OrderCount: count}, nil
	}

	return s.reward(ctx, order, logger)
}

// countOrders never fails: a lookup error is treated as "not the second order".
func (s *WebhookService) countOrders(ctx context.Context, customer *entity.Customer, logger *zap.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, s.settings.UpstreamTimeout)
	defer cancel()

	count, err := s.orders.CountOrders(ctx, customer.ID)
	if err != nil {
		logger.Warn("order count lookup failed, assuming zero", zap.Error(err))
		return 0
	}
	if count < 0 {
		logger.Warn("negative order count from platform, assuming zero", zap.Int("order_count", count))
		return 0
	}
	return count
}

func (s *WebhookService) reward(ctx context.Context, order *entity.Order, logger *zap.Logger) (*entity.Outcome, error) {
	instrument, err := entity.NewRewardInstrument(order, s.settings.GiftCardNote)
	if err != nil {
		// The gift card cannot be priced, so it can never be issued.
		return nil, fmt.Errorf("%w: %v", domain.ErrRewardIssueFailed, err)
	}

	logger = logger.With(zap.String("amount", instrument.Amount.String()))
	logger.Info("processing second order",
		zap.String("order_total", order.TotalPrice),
	)
	if instrument.Amount.IsZero() {
		logger.Warn("reward rounds to zero, issuing anyway")
	}

	claimed, err := s.claim(ctx, order, logger)
	if err != nil {
		return nil, err
	}
	if !claimed {
		logger.Warn("reward already claimed for order, skipping issuance")
		return &entity.Outcome{
			Kind:          entity.OutcomeDuplicate,
			OrderCount:    domain.QualifyingOrderCount,
			CustomerEmail: order.Customer.Email,
		}, nil
	}

	issued, err := s.issue(ctx, instrument)
	if err != nil {
		s.release(ctx, order, logger)
		return nil, err
	}

	logger.Info("gift card created", zap.Int64("gift_card_id", issued.ID))

	if issued.Code == "" {
		logger.Warn("gift card returned without a code, skipping notification")
	} else {
		s.notify(ctx, order, issued, logger)
	}

	return &entity.Outcome{
		Kind:          entity.OutcomeRewarded,
		OrderCount:    domain.QualifyingOrderCount,
		Amount:        issued.Amount.String(),
		CustomerEmail: order.Customer.Email,
	}, nil
}

func (s *WebhookService) issue(ctx context.Context, instrument *entity.RewardInstrument) (*entity.RewardInstrument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.UpstreamTimeout)
	defer cancel()

	issued, err := s.issuer.Issue(ctx, instrument)
	if err != nil {
		if errors.Is(err, domain.ErrRewardIssueFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRewardIssueFailed, err)
	}
	return issued, nil
}

func (s *WebhookService) claim(ctx context.Context, order *entity.Order, logger *zap.Logger) (bool, error) {
	if s.claims == nil {
		return true, nil
	}
	if order.ID == 0 {
		logger.Warn("order has no id, cannot deduplicate reward")
		return true, nil
	}
	claimed, err := s.claims.Claim(ctx, order.ID)
	if err != nil {
		return false, fmt.Errorf("claiming order %d: %w", order.ID, err)
	}
	return claimed, nil
}

func (s *WebhookService) release(ctx context.Context, order *entity.Order, logger *zap.Logger) {
	if s.claims == nil || order.ID == 0 {
		return
	}
	// The request may already be cancelled; the claim must still be freed
	// or redeliveries are answered as duplicates until it expires.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settings.UpstreamTimeout)
	defer cancel()

	if err := s.claims.Release(ctx, order.ID); err != nil {
		logger.Error("failed to release reward claim", zap.Error(err))
	}
}

func (s *WebhookService) notify(ctx context.Context, order *entity.Order, issued *entity.RewardInstrument, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.UpstreamTimeout)
	defer cancel()

	notification := entity.NewRewardNotification(order, issued, s.now())
	if err := s.notifier.Notify(ctx, notification); err != nil {
		logger.Warn("notification failed",
			zap.String("sink", s.notifier.Name()),
			zap.String("notification_id", notification.ID),
			zap.Error(err),
		)
	}
}
