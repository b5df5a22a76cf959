package secondary

import (
	"context"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

// NotificationSink records or forwards an issued reward (log, queue, topic).
type NotificationSink interface {
	// Name identifies the sink in logs.
	Name() string

	// Notify hands the notification to the sink.
	Notify(ctx context.Context, notification entity.RewardNotification) error
}

// NotificationQueue holds notifications awaiting delivery.
type NotificationQueue interface {
	// Dequeue removes and returns up to limit pending notifications.
	Dequeue(ctx context.Context, limit int) ([]entity.RewardNotification, error)

	// DeadLetter parks a notification that could not be delivered.
	DeadLetter(ctx context.Context, notification entity.RewardNotification) error
}

// EmailSender delivers a reward notification to the customer by email.
type EmailSender interface {
	Send(ctx context.Context, notification entity.RewardNotification) error
}
