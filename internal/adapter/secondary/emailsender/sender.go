// Package emailsender delivers reward notifications through a
// Resend-compatible HTTP email API.
package emailsender

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
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

// Sender implements secondary.EmailSender using HTTP POST requests.
type Sender struct {
	url    string
	apiKey string
	from   string
	client *http.Client
	logger *zap.Logger
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// NewSender creates an email sender from the application configuration.
func NewSender(cfg *config.Config, logger *zap.Logger) *Sender {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logger.Info("email sender initialized",
		zap.String("url", cfg.EmailAPIURL),
		zap.Duration("timeout", client.Timeout),
	)

	return &Sender{
		url:    cfg.EmailAPIURL,
		apiKey: cfg.EmailAPIKey,
		from:   cfg.EmailFrom,
		client: client,
		logger: logger.Named("email-sender"),
	}
}

// Send emails the gift card code to the customer.
func (s *Sender) Send(ctx context.Context, n entity.RewardNotification) error {
	if s.url == "" {
		return fmt.Errorf("email API URL is required for email delivery")
	}
	if n.CustomerEmail == "" {
		return fmt.Errorf("notification %s has no recipient", n.ID)
	}

	payload, err := json.Marshal(sendEmailRequest{
		From:    s.from,
		To:      []string{n.CustomerEmail},
		Subject: "Your gift card for your second order",
		Text: fmt.Sprintf(
			"Thank you for your second order! Here is a gift card worth %s.\n\nGift card code: %s\n",
			n.Amount, n.Code,
		),
	})
	if err != nil {
		return fmt.Errorf("encoding email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ID)
	req.Header.Set("User-Agent", "rewardhook/1.0")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing http request to %q: %w", s.url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http request failed with status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Debug("notification email sent",
		zap.String("notification_id", n.ID),
		zap.Int("status_code", resp.StatusCode),
	)

	return nil
}

// Close releases resources.
func (s *Sender) Close() error {
	if s.client != nil {
		s.client.CloseIdleConnections()
	}
	return nil
}
