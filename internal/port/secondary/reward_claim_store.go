package secondary

import "context"

// RewardClaimStore records which orders already had a reward attempted, so a
// redelivered webhook does not issue a second gift card.
type RewardClaimStore interface {
	// Claim marks the order as being rewarded. It returns false when the
	// order was already claimed.
	Claim(ctx context.Context, orderID int64) (bool, error)

	// Release forgets a claim, used when issuance failed.
	Release(ctx context.Context, orderID int64) error
}
