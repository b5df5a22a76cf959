package valueobject

import (
	"fmt"
	"strconv"
)

// CustomerID is an immutable value object identifying a platform customer.
type CustomerID struct {
	value int64
}

// NewCustomerID creates a validated CustomerID. Platform ids are always positive.
func NewCustomerID(value int64) (CustomerID, error) {
	if value <= 0 {
		return CustomerID{}, fmt.Errorf("customer ID must be positive, got %d", value)
	}
	return CustomerID{value: value}, nil
}

// Int64 returns the numeric id as sent to the platform API.
func (c CustomerID) Int64() int64 {
	return c.value
}

// String returns the decimal representation of the id.
func (c CustomerID) String() string {
	return strconv.FormatInt(c.value, 10)
}

// IsZero reports whether the id is unset.
func (c CustomerID) IsZero() bool {
	return c.value == 0
}
