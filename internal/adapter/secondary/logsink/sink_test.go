package logsink

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

func TestSink_Notify(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewSink(zap.New(core))

	err := sink.Notify(context.Background(), entity.RewardNotification{
		ID:            "n1",
		CustomerEmail: "bob@example.com",
		Code:          "ABCD",
		Amount:        "3.33",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("pending gift card notification").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["email"] != "bob@example.com" || fields["code"] != "ABCD" || fields["amount"] != "3.33" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if sink.Name() != "log" {
		t.Fatalf("unexpected name %q", sink.Name())
	}
}
