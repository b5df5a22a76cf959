package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/port/primary"
)

// Worker drains pending reward notifications at regular intervals.
// It respects context cancellation for graceful shutdown.
type Worker struct {
	dispatcher   primary.NotificationDispatcher
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewWorker creates a Worker that dispatches notifications at the given interval.
func NewWorker(
	dispatcher primary.NotificationDispatcher,
	pollInterval time.Duration,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		dispatcher:   dispatcher,
		pollInterval: pollInterval,
		logger:       logger.Named("notification-worker"),
	}
}

// Run starts the polling loop. It blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started",
		zap.Duration("poll_interval", w.pollInterval),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := w.dispatcher.DispatchPending(ctx); err != nil {
				// Keep polling; the next tick retries the dequeue.
				w.logger.Error("error dispatching notifications", zap.Error(err))
			}
		}
	}
}
