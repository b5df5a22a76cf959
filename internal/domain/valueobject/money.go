package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits money is rendered with.
const moneyScale = 2

var hundred = decimal.NewFromInt(100)

// Money is a non-negative currency amount held as an exact decimal.
type Money struct {
	amount decimal.Decimal
}

// ParseMoney parses a decimal string such as "33.34".
func ParseMoney(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Money{}, fmt.Errorf("amount must not be empty")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("amount must not be negative, got %s", trimmed)
	}
	return Money{amount: d}, nil
}

// Percent returns percent% of m rounded half-up to two fractional digits.
// 10% of 33.337 is 3.33, 10% of 0.05 is 0.01.
func (m Money) Percent(percent int64) Money {
	share := m.amount.Mul(decimal.NewFromInt(percent)).Div(hundred)
	// Round is half away from zero, which is half-up for non-negative amounts.
	return Money{amount: share.Round(moneyScale)}
}

// IsZero reports whether the amount renders as 0.00.
func (m Money) IsZero() bool {
	return m.amount.Round(moneyScale).IsZero()
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}
