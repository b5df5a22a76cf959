package shopify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/valueobject"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// OrderHistory implements secondary.OrderHistory.
type OrderHistory struct {
	client *Client
}

// NewOrderHistory creates the order count adapter.
func NewOrderHistory(client *Client) secondary.OrderHistory {
	return &OrderHistory{client: client}
}

type orderCountResponse struct {
	Count *int `json:"count"`
}

// CountOrders calls GET /customers/{id}/orders/count.json.
func (o *OrderHistory) CountOrders(ctx context.Context, customerID valueobject.CustomerID) (int, error) {
	path := fmt.Sprintf("/customers/%s/orders/count.json", customerID)

	var resp orderCountResponse
	if err := o.client.do(ctx, "count_orders", http.MethodGet, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrOrderLookupFailed, err)
	}
	if resp.Count == nil {
		return 0, fmt.Errorf("%w: response has no count", domain.ErrOrderLookupFailed)
	}

	return *resp.Count, nil
}
