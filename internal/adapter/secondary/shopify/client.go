// Package shopify implements the order history and reward issuer ports
// against the Shopify Admin REST API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/config"
	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/metrics"
)

// maxErrorBody caps how much of an upstream error body is kept in errors.
const maxErrorBody = 512

// Client performs authenticated Admin API calls for one shop.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewClient creates a Shopify client from the application configuration.
func NewClient(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Client {
	return newClient(cfg.ShopBaseURL(), cfg.AccessToken, cfg.UpstreamTimeout, m, logger)
}

func newClient(baseURL, accessToken string, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = domain.DefaultUpstreamTimeout
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logger.Info("shopify client initialized",
		zap.String("base_url", baseURL),
		zap.Duration("timeout", client.Timeout),
	)

	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        client,
		metrics:     m,
		logger:      logger.Named("shopify-client"),
	}
}

// StatusError is returned when the platform answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shopify returned status %d: %s", e.StatusCode, e.Body)
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, operation, method, path string, in, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics == nil {
			return
		}
		c.metrics.UpstreamRequests.WithLabelValues(operation, metrics.Result(err)).Inc()
		c.metrics.UpstreamDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", operation, err)
		}
		body = bytes.NewReader(payload)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("creating http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(domain.AccessTokenHeader, c.accessToken)
	req.Header.Set("User-Agent", "rewardhook/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", operation, err)
	}

	c.logger.Debug("shopify request completed",
		zap.String("operation", operation),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
