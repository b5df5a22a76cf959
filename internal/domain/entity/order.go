package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ruudy-sib/rewardhook/internal/domain/valueobject"
)

// WebhookEnvelope is an inbound delivery exactly as received on the wire.
// Body must be the unmodified request bytes so the signature can be checked.
type WebhookEnvelope struct {
	Body      []byte
	Signature string
	Topic     string
}

// Customer is the buyer attached to an order.
type Customer struct {
	ID    valueobject.CustomerID
	Email string
}

// Order is the read-only view of an "order created" payload.
type Order struct {
	ID         int64
	TotalPrice string
	Customer   *Customer
}

// HasCustomer reports whether the order belongs to a known customer.
// Guest checkouts carry no customer or a customer without an id.
func (o *Order) HasCustomer() bool {
	return o.Customer != nil && !o.Customer.ID.IsZero()
}

// Total parses the order total price.
func (o *Order) Total() (valueobject.Money, error) {
	return valueobject.ParseMoney(o.TotalPrice)
}

// orderPayload is the subset of the platform order JSON this service reads.
type orderPayload struct {
	ID         int64            `json:"id"`
	TotalPrice json.RawMessage  `json:"total_price"`
	Customer   *customerPayload `json:"customer"`
}

type customerPayload struct {
	ID    *int64 `json:"id"`
	Email string `json:"email"`
}

// ParseOrder decodes an order from the raw webhook body.
func ParseOrder(raw []byte) (*Order, error) {
	var p orderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding order: %w", err)
	}

	order := &Order{
		ID:         p.ID,
		TotalPrice: rawScalar(p.TotalPrice),
	}

	if p.Customer != nil && p.Customer.ID != nil && *p.Customer.ID != 0 {
		id, err := valueobject.NewCustomerID(*p.Customer.ID)
		if err != nil {
			return nil, fmt.Errorf("decoding customer: %w", err)
		}
		order.Customer = &Customer{ID: id, Email: p.Customer.Email}
	}

	return order, nil
}

// rawScalar returns a JSON string or number as plain text.
// The platform sends prices as strings; numbers are accepted as well.
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
