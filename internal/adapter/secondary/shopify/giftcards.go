package shopify

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/entity"
	"github.com/ruudy-sib/rewardhook/internal/port/secondary"
)

// GiftCardIssuer implements secondary.RewardIssuer with Shopify gift cards.
type GiftCardIssuer struct {
	client *Client
}

// NewGiftCardIssuer creates the gift card adapter.
func NewGiftCardIssuer(client *Client) secondary.RewardIssuer {
	return &GiftCardIssuer{client: client}
}

type giftCardRequest struct {
	GiftCard giftCardInput `json:"gift_card"`
}

type giftCardInput struct {
	InitialValue string `json:"initial_value"`
	CustomerID   int64  `json:"customer_id"`
	Note         string `json:"note"`
}

type giftCardResponse struct {
	GiftCard *struct {
		ID   int64  `json:"id"`
		Code string `json:"code"`
	} `json:"gift_card"`
}

// Issue calls POST /gift_cards.json. Every failure wraps domain.ErrRewardIssueFailed.
func (g *GiftCardIssuer) Issue(ctx context.Context, reward *entity.RewardInstrument) (*entity.RewardInstrument, error) {
	req := giftCardRequest{
		GiftCard: giftCardInput{
			InitialValue: reward.Amount.String(),
			CustomerID:   reward.CustomerID.Int64(),
			Note:         reward.Note,
		},
	}

	var resp giftCardResponse
	if err := g.client.do(ctx, "create_gift_card", http.MethodPost, "/gift_cards.json", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRewardIssueFailed, err)
	}
	if resp.GiftCard == nil {
		return nil, fmt.Errorf("%w: response has no gift_card", domain.ErrRewardIssueFailed)
	}

	issued := *reward
	issued.ID = resp.GiftCard.ID
	issued.Code = resp.GiftCard.Code

	g.client.logger.Info("gift card issued",
		zap.Int64("gift_card_id", issued.ID),
		zap.String("customer_id", issued.CustomerID.String()),
		zap.String("amount", issued.Amount.String()),
	)

	return &issued, nil
}
