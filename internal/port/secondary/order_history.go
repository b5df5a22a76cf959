package secondary

import (
	"context"

	"github.com/ruudy-sib/rewardhook/internal/domain/valueobject"
)

// OrderHistory defines the secondary port for reading a customer's order
// history from the commerce platform.
type OrderHistory interface {
	// CountOrders returns the total number of orders placed by the customer.
	CountOrders(ctx context.Context, customerID valueobject.CustomerID) (int, error)
}
