package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ruudy-sib/rewardhook/internal/domain"
)

// Notification sink names accepted in NOTIFICATION_SINKS.
const (
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkKafka = "kafka"
)

// Config holds all application configuration values.
// It is built once at startup and never mutated afterwards.
type Config struct {
	// HTTP server
	HTTPAddr    string
	WebhookPath string

	// Shopify
	WebhookSecret   string
	AccessToken     string
	ShopDomain      string
	APIVersion      string
	AdminURL        string
	UpstreamTimeout time.Duration
	GiftCardNote    string

	// Notifications
	NotificationSinks []string
	NotificationTopic string
	PollInterval      time.Duration

	// Email delivery for queued notifications
	EmailAPIURL string
	EmailAPIKey string
	EmailFrom   string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string

	// Reward dedup guard
	DedupEnabled bool
	DedupTTL     time.Duration

	// Application
	Environment string
	LogLevel    string
}

// New creates a Config populated from environment variables with sensible defaults.
// Malformed numeric or duration values are reported by Validate.
func New() *Config {
	cfg := &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		WebhookPath:       getEnv("WEBHOOK_PATH", "/webhooks/orders/create"),
		WebhookSecret:     getEnv("SHOPIFY_WEBHOOK_SECRET", ""),
		AccessToken:       getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopDomain:        strings.TrimSpace(getEnv("SHOP_DOMAIN", "")),
		APIVersion:        getEnv("SHOPIFY_API_VERSION", domain.DefaultAPIVersion),
		AdminURL:          strings.TrimRight(getEnv("SHOPIFY_ADMIN_URL", ""), "/"),
		UpstreamTimeout:   getDuration("SHOPIFY_TIMEOUT", domain.DefaultUpstreamTimeout),
		GiftCardNote:      getEnv("GIFT_CARD_NOTE", domain.DefaultGiftCardNote),
		NotificationSinks: splitList(getEnv("NOTIFICATION_SINKS", SinkLog)),
		NotificationTopic: getEnv("NOTIFICATION_TOPIC", "rewards.issued"),
		PollInterval:      getDuration("NOTIFY_POLL_INTERVAL", domain.DefaultPollInterval),
		EmailAPIURL:       getEnv("EMAIL_API_URL", ""),
		EmailAPIKey:       getEnv("EMAIL_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", ""),
		RedisAddr:         getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           0,
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		DedupEnabled:      getBool("REWARD_DEDUP_ENABLED", false),
		DedupTTL:          getDuration("REWARD_DEDUP_TTL", domain.DefaultDedupTTL),
		Environment:       getEnv("ENVIRONMENT", "local"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate reports every missing or malformed value at once. A failure here
// is a startup error, never a per-request one.
func (c *Config) Validate() error {
	var problems []string

	required := []struct {
		key   string
		value string
	}{
		{"SHOPIFY_WEBHOOK_SECRET", c.WebhookSecret},
		{"SHOPIFY_ACCESS_TOKEN", c.AccessToken},
		{"SHOP_DOMAIN", c.ShopDomain},
	}
	for _, r := range required {
		if r.value == "" {
			problems = append(problems, r.key+" is required")
		}
	}

	if c.AdminURL != "" && !strings.HasPrefix(c.AdminURL, "http://") && !strings.HasPrefix(c.AdminURL, "https://") {
		problems = append(problems, "SHOPIFY_ADMIN_URL must be an http(s) URL")
	}
	if strings.Contains(c.ShopDomain, "/") {
		problems = append(problems, "SHOP_DOMAIN must be a bare host such as my-shop.myshopify.com")
	}
	if c.UpstreamTimeout <= 0 {
		problems = append(problems, "SHOPIFY_TIMEOUT must be a positive duration")
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		problems = append(problems, "WEBHOOK_PATH must start with /")
	}

	for _, sink := range c.NotificationSinks {
		switch sink {
		case SinkLog, SinkRedis, SinkKafka:
		default:
			problems = append(problems, fmt.Sprintf("unknown notification sink %q", sink))
		}
	}
	if c.HasSink(SinkKafka) && (len(c.KafkaBrokers) == 0 || c.NotificationTopic == "") {
		problems = append(problems, "kafka sink requires KAFKA_BROKERS and NOTIFICATION_TOPIC")
	}
	if c.EmailEnabled() && c.EmailFrom == "" {
		problems = append(problems, "EMAIL_FROM is required when EMAIL_API_URL is set")
	}
	if c.EmailEnabled() && c.PollInterval <= 0 {
		problems = append(problems, "NOTIFY_POLL_INTERVAL must be a positive duration")
	}
	if c.DedupEnabled && c.DedupTTL <= 0 {
		problems = append(problems, "REWARD_DEDUP_TTL must be a positive duration")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMisconfigured, strings.Join(problems, "; "))
	}
	return nil
}

// HasSink reports whether the named notification sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.NotificationSinks {
		if s == name {
			return true
		}
	}
	return false
}

// EmailEnabled reports whether queued notifications should be emailed.
func (c *Config) EmailEnabled() bool {
	return c.EmailAPIURL != "" && c.HasSink(SinkRedis)
}

// RedisEnabled reports whether any component needs a Redis connection.
func (c *Config) RedisEnabled() bool {
	return c.HasSink(SinkRedis) || c.DedupEnabled
}

// ShopBaseURL returns the Admin REST API root for the configured shop.
// AdminURL, when set, replaces it so a local stand-in can be targeted.
func (c *Config) ShopBaseURL() string {
	if c.AdminURL != "" {
		return c.AdminURL
	}
	return "https://" + c.ShopDomain + "/admin/api/" + c.APIVersion
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDuration returns -1 for an unparseable value so Validate can reject it.
func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return -1
	}
	return d
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
