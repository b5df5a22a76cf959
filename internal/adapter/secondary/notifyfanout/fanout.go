package notifyfanout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/metrics"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// Fanout delivers each notification to every configured sink.
// A failing sink does not stop delivery to the others.
type Fanout struct {
	sinks   []secondary.NotificationSink
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewFanout creates a sink that forwards to all of sinks in order.
func NewFanout(sinks []secondary.NotificationSink, m *metrics.Metrics, logger *zap.Logger) *Fanout {
	return &Fanout{
		sinks:   sinks,
		metrics: m,
		logger:  logger.Named("notify-fanout"),
	}
}

// Name identifies the sink in logs.
func (f *Fanout) Name() string {
	return "fanout"
}

// Notify forwards n to every sink and joins their errors.
func (f *Fanout) Notify(ctx context.Context, n entity.RewardNotification) error {
	var errs []error

	for _, sink := range f.sinks {
		err := sink.Notify(ctx, n)
		if f.metrics != nil {
			f.metrics.Notifications.WithLabelValues(sink.Name(), metrics.Result(err)).Inc()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
			continue
		}
		f.logger.Debug("notification delivered to sink",
			zap.String("sink", sink.Name()),
			zap.String("notification_id", n.ID),
		)
	}

	return errors.Join(errs...)
}
