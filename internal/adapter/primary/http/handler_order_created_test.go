package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/domain/service"
	"github.com/ruudy-sib/rewardhook/internal/metrics"
)

func TestOrderCreatedHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		outcome    *entity.Outcome
		serviceErr error
		wantStatus int
		wantCalls  int
		wantBody   map[string]interface{}
	}{
		{
			name:       "GET is rejected before the service runs",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
			wantCalls:  0,
			wantBody:   map[string]interface{}{"error": "Method not allowed"},
		},
		{
			name:       "PUT is rejected before the service runs",
			method:     http.MethodPut,
			wantStatus: http.StatusMethodNotAllowed,
			wantCalls:  0,
			wantBody:   map[string]interface{}{"error": "Method not allowed"},
		},
		{
			name:       "invalid signature",
			method:     http.MethodPost,
			serviceErr: domain.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantCalls:  1,
			wantBody:   map[string]interface{}{"error": "Unauthorized webhook"},
		},
		{
			name:       "invalid payload",
			method:     http.MethodPost,
			serviceErr: fmt.Errorf("%w: bad json", domain.ErrInvalidPayload),
			wantStatus: http.StatusBadRequest,
			wantCalls:  1,
			wantBody:   map[string]interface{}{"error": "Invalid order payload"},
		},
		{
			name:       "no customer",
			method:     http.MethodPost,
			outcome:    &entity.Outcome{Kind: entity.OutcomeNoCustomer},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody:   map[string]interface{}{"message": "No customer associated"},
		},
		{
			name:   "rewarded",
			method: http.MethodPost,
			outcome: &entity.Outcome{
				Kind:          entity.OutcomeRewarded,
				OrderCount:    2,
				Amount:        "3.33",
				CustomerEmail: "jon@example.com",
			},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody: map[string]interface{}{
				"message":  "Gift card created successfully",
				"amount":   "3.33",
				"customer": "jon@example.com",
			},
		},
		{
			name:       "no action",
			method:     http.MethodPost,
			outcome:    &entity.Outcome{Kind: entity.OutcomeNoAction, OrderCount: 5},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody: map[string]interface{}{
				"message":    "Webhook processed, no action needed",
				"orderCount": float64(5),
			},
		},
		{
			name:       "duplicate delivery",
			method:     http.MethodPost,
			outcome:    &entity.Outcome{Kind: entity.OutcomeDuplicate},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody:   map[string]interface{}{"message": "Reward already processed for this order"},
		},
		{
			name:       "issuance failure exposes upstream detail",
			method:     http.MethodPost,
			serviceErr: fmt.Errorf("%w: shopify returned status 422", domain.ErrRewardIssueFailed),
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
			wantBody: map[string]interface{}{
				"error":   "Internal server error",
				"message": "reward issuance failed: shopify returned status 422",
			},
		},
		{
			name:       "unexpected error is generic",
			method:     http.MethodPost,
			serviceErr: errors.New("redis: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
			wantBody: map[string]interface{}{
				"error":   "Internal server error",
				"message": "unexpected error while processing webhook",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWebhookService{outcome: tt.outcome, err: tt.serviceErr}
			handler := NewOrderCreatedHandler(svc, metrics.New(), zap.NewNop())

			req := httptest.NewRequest(tt.method, "/webhooks/orders/create", bytes.NewReader(orderJSON("10.00")))
			req.Header.Set(domain.SignatureHeader, "c2lnbmF0dXJl")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if len(svc.calls) != tt.wantCalls {
				t.Fatalf("expected %d service calls, got %d", tt.wantCalls, len(svc.calls))
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected application/json, got %q", ct)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(body) != len(tt.wantBody) {
				t.Fatalf("expected body %v, got %v", tt.wantBody, body)
			}
			for k, want := range tt.wantBody {
				if body[k] != want {
					t.Fatalf("expected %s=%v, got %v", k, want, body[k])
				}
			}
		})
	}
}

func TestOrderCreatedHandler_passesRawBodyAndHeaders(t *testing.T) {
	svc := &mockWebhookService{outcome: &entity.Outcome{Kind: entity.OutcomeNoCustomer}}
	handler := NewOrderCreatedHandler(svc, nil, zap.NewNop())

	// Unusual spacing must reach the service byte for byte.
	raw := []byte(`{ "id" : 1,  "total_price":"1.00" }`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", bytes.NewReader(raw))
	req.Header.Set(domain.SignatureHeader, "abc=")
	req.Header.Set(domain.TopicHeader, "orders/create")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 service call, got %d", len(svc.calls))
	}
	got := svc.calls[0]
	if !bytes.Equal(got.Body, raw) {
		t.Fatalf("expected raw body %q, got %q", raw, got.Body)
	}
	if got.Signature != "abc=" {
		t.Fatalf("expected signature abc=, got %q", got.Signature)
	}
	if got.Topic != "orders/create" {
		t.Fatalf("expected topic orders/create, got %q", got.Topic)
	}
}

func TestOrderCreatedHandler_rejectsOversizedBody(t *testing.T) {
	svc := &mockWebhookService{}
	handler := NewOrderCreatedHandler(svc, nil, zap.NewNop())

	big := strings.Repeat("a", domain.MaxWebhookBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", strings.NewReader(big))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected service not to be called, got %d calls", len(svc.calls))
	}
}

// newServiceRouter wires the real webhook service with fakes behind the router.
func newServiceRouter(orders *fakeOrderHistory, issuer *fakeIssuer, sink *fakeSink) http.Handler {
	svc := service.NewWebhookService(
		service.NewSignatureVerifier(testSecret),
		orders,
		issuer,
		sink,
		nil,
		service.Settings{},
		zap.NewNop(),
	)
	return NewRouter("/webhooks/orders/create", svc, nil, metrics.New(), zap.NewNop())
}

func postSigned(t *testing.T, h http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", bytes.NewReader(body))
	req.Header.Set(domain.SignatureHeader, signature)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_orderWebhookEndToEnd(t *testing.T) {
	t.Run("second order is rewarded", func(t *testing.T) {
		orders := &fakeOrderHistory{count: 2}
		issuer := &fakeIssuer{}
		sink := &fakeSink{}
		h := newServiceRouter(orders, issuer, sink)

		body := orderJSON("33.337")
		rec := postSigned(t, h, body, service.Sign(body, testSecret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp RewardResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Amount != "3.33" || resp.Customer != "jon@example.com" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if issuer.calls != 1 || sink.calls != 1 {
			t.Fatalf("expected one issue and one notify, got %d and %d", issuer.calls, sink.calls)
		}
	})

	t.Run("tampered body is unauthorized", func(t *testing.T) {
		orders := &fakeOrderHistory{count: 2}
		issuer := &fakeIssuer{}
		h := newServiceRouter(orders, issuer, &fakeSink{})

		body := orderJSON("10.00")
		sig := service.Sign(body, testSecret)
		rec := postSigned(t, h, orderJSON("10.01"), sig)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		if orders.calls != 0 || issuer.calls != 0 {
			t.Fatalf("expected no downstream calls, got lookup=%d issue=%d", orders.calls, issuer.calls)
		}
	})

	t.Run("lookup failure falls back to zero orders", func(t *testing.T) {
		orders := &fakeOrderHistory{err: fmt.Errorf("%w: dial tcp: timeout", domain.ErrOrderLookupFailed)}
		issuer := &fakeIssuer{}
		h := newServiceRouter(orders, issuer, &fakeSink{})

		body := orderJSON("10.00")
		rec := postSigned(t, h, body, service.Sign(body, testSecret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var resp OrderCountResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.OrderCount != 0 {
			t.Fatalf("expected orderCount 0, got %d", resp.OrderCount)
		}
		if issuer.calls != 0 {
			t.Fatalf("expected issuer not to be called, got %d", issuer.calls)
		}
	})

	t.Run("issuance failure is a 500 and skips notification", func(t *testing.T) {
		orders := &fakeOrderHistory{count: 2}
		issuer := &fakeIssuer{err: fmt.Errorf("%w: status 422", domain.ErrRewardIssueFailed)}
		sink := &fakeSink{}
		h := newServiceRouter(orders, issuer, sink)

		body := orderJSON("10.00")
		rec := postSigned(t, h, body, service.Sign(body, testSecret))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		var resp ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Error != "Internal server error" || !strings.Contains(resp.Message, "status 422") {
			t.Fatalf("unexpected error response: %+v", resp)
		}
		if sink.calls != 0 {
			t.Fatalf("expected notifier not to be called, got %d", sink.calls)
		}
	})

	t.Run("unparseable total on second order is a 500", func(t *testing.T) {
		orders := &fakeOrderHistory{count: 2}
		issuer := &fakeIssuer{}
		sink := &fakeSink{}
		h := newServiceRouter(orders, issuer, sink)

		body := orderJSON("free")
		rec := postSigned(t, h, body, service.Sign(body, testSecret))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Error != "Internal server error" || resp.Message == "" {
			t.Fatalf("unexpected error response: %+v", resp)
		}
		if issuer.calls != 0 || sink.calls != 0 {
			t.Fatalf("expected no issue or notify, got %d and %d", issuer.calls, sink.calls)
		}
	})

	t.Run("missing customer never reaches the issuer", func(t *testing.T) {
		orders := &fakeOrderHistory{count: 2}
		issuer := &fakeIssuer{}
		h := newServiceRouter(orders, issuer, &fakeSink{})

		body := []byte(`{"id":5,"total_price":"10.00","customer":null}`)
		rec := postSigned(t, h, body, service.Sign(body, testSecret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if orders.calls != 0 || issuer.calls != 0 {
			t.Fatalf("expected no downstream calls, got lookup=%d issue=%d", orders.calls, issuer.calls)
		}
	})
}

func TestRouter_recoversFromPanic(t *testing.T) {
	svc := &mockWebhookService{panics: true}
	h := NewRouter("/webhooks/orders/create", svc, nil, metrics.New(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "Internal server error" {
		t.Fatalf("expected generic error, got %+v", resp)
	}
}

func TestRouter_metricsEndpoint(t *testing.T) {
	svc := &mockWebhookService{outcome: &entity.Outcome{Kind: entity.OutcomeNoCustomer}}
	h := NewRouter("/webhooks/orders/create", svc, nil, metrics.New(), zap.NewNop())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", strings.NewReader("{}")))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `rewardhook_webhook_outcomes_total{outcome="no_customer"} 1`) {
		t.Fatalf("expected outcome counter in metrics output, got:\n%s", rec.Body.String())
	}
}
