package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// RewardClaims implements secondary.RewardClaimStore with SET NX keys that
// expire after ttl.
type RewardClaims struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRewardClaims creates a Redis-backed claim store.
func NewRewardClaims(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) secondary.RewardClaimStore {
	if ttl <= 0 {
		ttl = domain.DefaultDedupTTL
	}
	return &RewardClaims{
		client: client,
		prefix: domain.RedisRewardClaimPrefix,
		ttl:    ttl,
		logger: logger.Named("redis-reward-claims"),
	}
}

// Claim sets the order key only if it does not exist yet.
func (c *RewardClaims) Claim(ctx context.Context, orderID int64) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.key(orderID), time.Now().UTC().Format(time.RFC3339), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claiming order in redis: %w", err)
	}
	if !ok {
		c.logger.Debug("order already claimed", zap.Int64("order_id", orderID))
	}
	return ok, nil
}

// Release deletes the order key.
func (c *RewardClaims) Release(ctx context.Context, orderID int64) error {
	if err := c.client.Del(ctx, c.key(orderID)).Err(); err != nil {
		return fmt.Errorf("releasing order claim in redis: %w", err)
	}
	return nil
}

func (c *RewardClaims) key(orderID int64) string {
	return c.prefix + strconv.FormatInt(orderID, 10)
}
