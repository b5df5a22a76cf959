// Package logsink records issued rewards as structured log entries, for
// operators who send the customer notification by hand.
package logsink

import (
	"context"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

// Sink implements secondary.NotificationSink by logging.
type Sink struct {
	logger *zap.Logger
}

// NewSink creates a logging notification sink.
func NewSink(logger *zap.Logger) *Sink {
	return &Sink{logger: logger.Named("notification")}
}

// Name identifies the sink in logs.
func (s *Sink) Name() string {
	return "log"
}

// Notify writes one "pending notification" record. It never fails.
func (s *Sink) Notify(_ context.Context, n entity.RewardNotification) error {
	s.logger.Info("pending gift card notification",
		zap.String("notification_id", n.ID),
		zap.String("email", n.CustomerEmail),
		zap.String("code", n.Code),
		zap.String("amount", n.Amount),
		zap.Int64("order_id", n.OrderID),
	)
	return nil
}
