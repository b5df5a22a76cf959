package http

import "github.com/ruudy-sib/rewardhook/internal/domain/entity"

// MessageResponse is returned when an order needed no reward.
type MessageResponse struct {
	Message string `json:"message"`
}

// RewardResponse is returned when a gift card was created.
type RewardResponse struct {
	Message  string `json:"message"`
	Amount   string `json:"amount"`
	Customer string `json:"customer"`
}

// OrderCountResponse is returned when the order was not the second one.
type OrderCountResponse struct {
	Message    string `json:"message"`
	OrderCount int    `json:"orderCount"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// fromOutcome converts a domain outcome to its response payload.
func fromOutcome(o *entity.Outcome) interface{} {
	switch o.Kind {
	case entity.OutcomeRewarded:
		return RewardResponse{
			Message:  o.Message(),
			Amount:   o.Amount,
			Customer: o.CustomerEmail,
		}
	case entity.OutcomeNoAction:
		return OrderCountResponse{
			Message:    o.Message(),
			OrderCount: o.OrderCount,
		}
	default:
		return MessageResponse{Message: o.Message()}
	}
}
