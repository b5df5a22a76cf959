package secondary

import (
	"context"

	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
)

// RewardIssuer defines the secondary port for creating store credit on the
// commerce platform.
type RewardIssuer interface {
	// Issue creates the gift card and returns it with the platform assigned
	// id and redemption code.
	Issue(ctx context.Context, reward *entity.RewardInstrument) (*entity.RewardInstrument, error)
}
