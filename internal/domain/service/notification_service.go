package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// NotificationService delivers queued reward notifications by email.
// Failed deliveries are parked on the dead-letter list and not retried.
type NotificationService struct {
	queue     secondary.NotificationQueue
	sender    secondary.EmailSender
	batchSize int
	logger    *zap.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(
	queue secondary.NotificationQueue,
	sender secondary.EmailSender,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		queue:     queue,
		sender:    sender,
		batchSize: domain.DefaultBatchSize,
		logger:    logger.Named("notification-service"),
	}
}

// DispatchPending drains one batch from the queue.
func (s *NotificationService) DispatchPending(ctx context.Context) error {
	notifications, err := s.queue.Dequeue(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("dequeuing notifications: %w", err)
	}

	for _, n := range notifications {
		s.dispatch(ctx, n)
	}

	return nil
}

func (s *NotificationService) dispatch(ctx context.Context, n entity.RewardNotification) {
	logger := s.logger.With(
		zap.String("notification_id", n.ID),
		zap.Int64("order_id", n.OrderID),
	)

	if err := s.sender.Send(ctx, n); err != nil {
		logger.Warn("notification delivery failed, moving to dead-letter list", zap.Error(err))
		if dlErr := s.queue.DeadLetter(ctx, n); dlErr != nil {
			logger.Error("failed to dead-letter notification", zap.Error(dlErr))
		}
		return
	}

	logger.Info("notification delivered")
}
