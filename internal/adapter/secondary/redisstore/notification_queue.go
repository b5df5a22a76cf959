package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

// notificationDTO is the Redis-specific representation of a notification.
type notificationDTO struct {
	ID            string    `json:"id"`
	OrderID       int64     `json:"order_id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	Code          string    `json:"code"`
	Amount        string    `json:"amount"`
	IssuedAt      time.Time `json:"issued_at"`
}

func toDTO(n entity.RewardNotification) notificationDTO {
	return notificationDTO{
		ID:            n.ID,
		OrderID:       n.OrderID,
		CustomerID:    n.CustomerID,
		CustomerEmail: n.CustomerEmail,
		Code:          n.Code,
		Amount:        n.Amount,
		IssuedAt:      n.IssuedAt,
	}
}

func toEntity(dto notificationDTO) entity.RewardNotification {
	return entity.RewardNotification{
		ID:            dto.ID,
		OrderID:       dto.OrderID,
		CustomerID:    dto.CustomerID,
		CustomerEmail: dto.CustomerEmail,
		Code:          dto.Code,
		Amount:        dto.Amount,
		IssuedAt:      dto.IssuedAt,
	}
}

// NotificationQueue keeps pending notifications in a Redis list. It is both
// a secondary.NotificationSink (producer side) and a
// secondary.NotificationQueue (worker side).
type NotificationQueue struct {
	client     redis.Cmdable
	pendingKey string
	failedKey  string
	logger     *zap.Logger
}

// NewNotificationQueue creates a Redis-backed notification queue.
func NewNotificationQueue(client redis.Cmdable, logger *zap.Logger) *NotificationQueue {
	return &NotificationQueue{
		client:     client,
		pendingKey: domain.RedisPendingNotificationsKey,
		failedKey:  domain.RedisFailedNotificationsKey,
		logger:     logger.Named("redis-notification-queue"),
	}
}

// Name identifies the sink in logs.
func (q *NotificationQueue) Name() string {
	return "redis"
}

// Notify appends the notification to the pending list.
func (q *NotificationQueue) Notify(ctx context.Context, n entity.RewardNotification) error {
	return q.push(ctx, q.pendingKey, n)
}

// Dequeue pops up to limit notifications in FIFO order.
func (q *NotificationQueue) Dequeue(ctx context.Context, limit int) ([]entity.RewardNotification, error) {
	members, err := q.client.LPopCount(ctx, q.pendingKey, limit).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("popping notifications from redis: %w", err)
	}

	notifications := make([]entity.RewardNotification, 0, len(members))
	for _, member := range members {
		var dto notificationDTO
		if err := json.Unmarshal([]byte(member), &dto); err != nil {
			q.logger.Warn("invalid notification data in redis",
				zap.Error(err),
				zap.String("raw", member),
			)
			continue
		}
		notifications = append(notifications, toEntity(dto))
	}

	return notifications, nil
}

// DeadLetter appends the notification to the failed list.
func (q *NotificationQueue) DeadLetter(ctx context.Context, n entity.RewardNotification) error {
	return q.push(ctx, q.failedKey, n)
}

func (q *NotificationQueue) push(ctx context.Context, key string, n entity.RewardNotification) error {
	data, err := json.Marshal(toDTO(n))
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}
	if err := q.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("%w: pushing to %s: %v", domain.ErrNotificationFailed, key, err)
	}
	return nil
}
