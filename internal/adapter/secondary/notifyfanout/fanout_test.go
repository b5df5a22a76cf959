package notifyfanout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/metrics"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// mockSink implements secondary.NotificationSink for testing.
type mockSink struct {
	name  string
	err   error
	calls int
}

func (m *mockSink) Name() string { return m.name }

func (m *mockSink) Notify(_ context.Context, _ entity.RewardNotification) error {
	m.calls++
	return m.err
}

func TestFanout_Notify(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantErr   bool
		wantInErr []string
	}{
		{
			name: "all sinks succeed",
			errs: []error{nil, nil, nil},
		},
		{
			name:      "one failing sink does not stop the others",
			errs:      []error{nil, domain.ErrNotificationFailed, nil},
			wantErr:   true,
			wantInErr: []string{"sink s1"},
		},
		{
			name:      "every failure is reported",
			errs:      []error{errors.New("a"), nil, errors.New("c")},
			wantErr:   true,
			wantInErr: []string{"sink s0", "sink s2"},
		},
		{
			name: "no sinks",
			errs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mocks []*mockSink
			var sinks []secondary.NotificationSink
			for i, err := range tt.errs {
				m := &mockSink{name: "s" + string(rune('0'+i)), err: err}
				mocks = append(mocks, m)
				sinks = append(sinks, m)
			}

			f := NewFanout(sinks, metrics.New(), zap.NewNop())
			err := f.Notify(context.Background(), entity.RewardNotification{ID: "n1"})

			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}
			for _, want := range tt.wantInErr {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("expected %q in %q", want, err.Error())
				}
			}
			for _, m := range mocks {
				if m.calls != 1 {
					t.Fatalf("sink %s called %d times, want 1", m.name, m.calls)
				}
			}
		})
	}
}
