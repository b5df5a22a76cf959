package domain

import "time"

const (
	// QualifyingOrderCount is the order count that earns a reward. Only an
	// exact match qualifies; later orders are never rewarded retroactively.
	QualifyingOrderCount = 2

	// RewardPercent is the share of the qualifying order total issued as credit.
	RewardPercent = 10

	// SignatureHeader carries the base64 HMAC-SHA256 of the raw request body.
	SignatureHeader = "X-Shopify-Hmac-Sha256"

	// TopicHeader names the event type of an inbound webhook.
	TopicHeader = "X-Shopify-Topic"

	// AccessTokenHeader authenticates outbound Admin API calls.
	AccessTokenHeader = "X-Shopify-Access-Token"

	// DefaultAPIVersion is the Admin REST API version used for outbound calls.
	DefaultAPIVersion = "2023-10"

	// DefaultGiftCardNote is attached to every issued gift card.
	DefaultGiftCardNote = "Automatic gift card - 10% of second order"

	// MaxWebhookBodyBytes caps the inbound payload size.
	MaxWebhookBodyBytes = 1 << 20

	// DefaultUpstreamTimeout bounds each outbound platform call.
	DefaultUpstreamTimeout = 10 * time.Second

	// RedisPendingNotificationsKey is the list of notifications awaiting delivery.
	RedisPendingNotificationsKey = "rewardhook:notifications:pending"

	// RedisFailedNotificationsKey is the dead-letter list for undeliverable notifications.
	RedisFailedNotificationsKey = "rewardhook:notifications:failed"

	// RedisRewardClaimPrefix prefixes the per-order dedup claim keys.
	RedisRewardClaimPrefix = "rewardhook:reward:order:"

	// DefaultDedupTTL is how long an order claim is remembered.
	DefaultDedupTTL = 72 * time.Hour

	// DefaultPollInterval is the interval between notification worker cycles.
	DefaultPollInterval = 5 * time.Second

	// DefaultBatchSize is the maximum number of notifications drained per cycle.
	DefaultBatchSize = 10

	// RewardIssuedEventType names the event published for every issued reward.
	RewardIssuedEventType = "reward.issued"
)
