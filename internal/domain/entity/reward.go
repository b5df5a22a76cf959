package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/valueobject"
)

// RewardInstrument is a gift card issued as store credit.
// Code and ID are set by the platform once the card is created.
type RewardInstrument struct {
	ID         int64
	CustomerID valueobject.CustomerID
	Amount     valueobject.Money
	Note       string
	Code       string
}

// NewRewardInstrument prices a gift card at RewardPercent of the order total.
func NewRewardInstrument(order *Order, note string) (*RewardInstrument, error) {
	if !order.HasCustomer() {
		return nil, fmt.Errorf("order %d has no customer", order.ID)
	}
	total, err := order.Total()
	if err != nil {
		return nil, fmt.Errorf("order %d total: %w", order.ID, err)
	}
	return &RewardInstrument{
		CustomerID: order.Customer.ID,
		Amount:     total.Percent(domain.RewardPercent),
		Note:       note,
	}, nil
}

// RewardNotification describes an issued reward for notification sinks.
type RewardNotification struct {
	ID            string
	OrderID       int64
	CustomerID    int64
	CustomerEmail string
	Code          string
	Amount        string
	IssuedAt      time.Time
}

// NewRewardNotification builds the notification for a created gift card.
func NewRewardNotification(order *Order, reward *RewardInstrument, issuedAt time.Time) RewardNotification {
	return RewardNotification{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		CustomerID:    reward.CustomerID.Int64(),
		CustomerEmail: order.Customer.Email,
		Code:          reward.Code,
		Amount:        reward.Amount.String(),
		IssuedAt:      issuedAt.UTC(),
	}
}
