package http

import (
	"context"
	"fmt"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/domain/valueobject"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

const testSecret = "shpss_handler_secret"

// mockWebhookService implements primary.WebhookService for testing.
type mockWebhookService struct {
	outcome *entity.Outcome
	err     error
	panics  bool
	calls   []entity.WebhookEnvelope
}

func (m *mockWebhookService) HandleOrderCreated(_ context.Context, envelope entity.WebhookEnvelope) (*entity.Outcome, error) {
	m.calls = append(m.calls, envelope)
	if m.panics {
		panic("boom")
	}
	return m.outcome, m.err
}

// fakeOrderHistory implements secondary.OrderHistory for end-to-end handler tests.
type fakeOrderHistory struct {
	count int
	err   error
	calls int
}

func (f *fakeOrderHistory) CountOrders(_ context.Context, _ valueobject.CustomerID) (int, error) {
	f.calls++
	return f.count, f.err
}

// fakeIssuer implements secondary.RewardIssuer for end-to-end handler tests.
type fakeIssuer struct {
	err   error
	calls int
}

func (f *fakeIssuer) Issue(_ context.Context, reward *entity.RewardInstrument) (*entity.RewardInstrument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	issued := *reward
	issued.ID = 77
	issued.Code = "GIFTCODE0077"
	return &issued, nil
}

// fakeSink implements secondary.NotificationSink for end-to-end handler tests.
type fakeSink struct {
	calls int
}

func (f *fakeSink) Name() string { return "fake" }

func (f *fakeSink) Notify(_ context.Context, _ entity.RewardNotification) error {
	f.calls++
	return nil
}

// orderJSON builds an order payload for a known customer.
func orderJSON(total string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":820982911946154508,"total_price":%q,"customer":{"id":115310627314723954,"email":"jon@example.com"}}`,
		total,
	))
}

// mockHealthCheck is a test double for health checks.
type mockHealthCheck struct {
	name string
	err  error
}

// healthCheckerAdapter wraps mockHealthCheck to satisfy secondary.HealthChecker.
type healthCheckerAdapter struct {
	check mockHealthCheck
}

func (a healthCheckerAdapter) Name() string {
	return a.check.name
}

func (a healthCheckerAdapter) Check(_ context.Context) error {
	return a.check.err
}

// Compile-time interface assertion
var _ secondary.HealthChecker = healthCheckerAdapter{}

// toHealthCheckers converts a slice of adapters to a slice of the interface.
func toHealthCheckers(adapters []healthCheckerAdapter) []secondary.HealthChecker {
	if len(adapters) == 0 {
		return nil
	}
	result := make([]secondary.HealthChecker, len(adapters))
	for i, a := range adapters {
		result[i] = a
	}
	return result
}
