package service

import (
	"context"
	"fmt"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/domain/valueobject"
)

const testSecret = "shpss_test_secret"

// mockOrderHistory implements secondary.OrderHistory for testing.
type mockOrderHistory struct {
	count int
	err   error
	calls []valueobject.CustomerID
}

func (m *mockOrderHistory) CountOrders(_ context.Context, customerID valueobject.CustomerID) (int, error) {
	m.calls = append(m.calls, customerID)
	return m.count, m.err
}

// mockIssuer implements secondary.RewardIssuer for testing.
type mockIssuer struct {
	code    string
	err     error
	onIssue func(ctx context.Context) error
	calls   []*entity.RewardInstrument
}

func (m *mockIssuer) Issue(ctx context.Context, reward *entity.RewardInstrument) (*entity.RewardInstrument, error) {
	m.calls = append(m.calls, reward)
	if m.onIssue != nil {
		if err := m.onIssue(ctx); err != nil {
			return nil, err
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	issued := *reward
	issued.ID = 1001
	issued.Code = m.code
	return &issued, nil
}

// mockSink implements secondary.NotificationSink for testing.
type mockSink struct {
	err   error
	block bool
	calls []entity.RewardNotification
}

func (m *mockSink) Name() string { return "mock" }

func (m *mockSink) Notify(ctx context.Context, n entity.RewardNotification) error {
	m.calls = append(m.calls, n)
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

// mockClaims implements secondary.RewardClaimStore for testing.
type mockClaims struct {
	claimed  map[int64]bool
	claimErr error
	released []int64
}

func newMockClaims() *mockClaims {
	return &mockClaims{claimed: make(map[int64]bool)}
}

func (m *mockClaims) Claim(_ context.Context, orderID int64) (bool, error) {
	if m.claimErr != nil {
		return false, m.claimErr
	}
	if m.claimed[orderID] {
		return false, nil
	}
	m.claimed[orderID] = true
	return true, nil
}

func (m *mockClaims) Release(ctx context.Context, orderID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(m.claimed, orderID)
	m.released = append(m.released, orderID)
	return nil
}

// mockQueue implements secondary.NotificationQueue for testing.
type mockQueue struct {
	pending    []entity.RewardNotification
	dequeueErr error
	dead       []entity.RewardNotification
}

func (m *mockQueue) Dequeue(_ context.Context, limit int) ([]entity.RewardNotification, error) {
	if m.dequeueErr != nil {
		return nil, m.dequeueErr
	}
	if limit > len(m.pending) {
		limit = len(m.pending)
	}
	batch := m.pending[:limit]
	m.pending = m.pending[limit:]
	return batch, nil
}

func (m *mockQueue) DeadLetter(_ context.Context, n entity.RewardNotification) error {
	m.dead = append(m.dead, n)
	return nil
}

// mockSender implements secondary.EmailSender for testing.
type mockSender struct {
	failFor map[string]bool
	sent    []entity.RewardNotification
}

func (m *mockSender) Send(_ context.Context, n entity.RewardNotification) error {
	if m.failFor[n.ID] {
		return fmt.Errorf("email api returned 500")
	}
	m.sent = append(m.sent, n)
	return nil
}

// orderBody returns a standard order webhook payload fixture.
func orderBody(total string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":450789469,"total_price":%q,"customer":{"id":207119551,"email":"bob@example.com"}}`,
		total,
	))
}

// signedEnvelope wraps body with a valid signature.
func signedEnvelope(body []byte) entity.WebhookEnvelope {
	return entity.WebhookEnvelope{
		Body:      body,
		Signature: Sign(body, testSecret),
		Topic:     "orders/create",
	}
}
