package domain

import "errors"

var (
	// ErrUnauthorized indicates the webhook signature did not verify.
	ErrUnauthorized = errors.New("unauthorized webhook")

	// ErrInvalidPayload indicates a verified body that is not a usable order.
	ErrInvalidPayload = errors.New("invalid order payload")

	// ErrOrderLookupFailed indicates the order count could not be retrieved.
	ErrOrderLookupFailed = errors.New("order count lookup failed")

	// ErrRewardIssueFailed indicates the platform rejected or never received the gift card request.
	ErrRewardIssueFailed = errors.New("reward issuance failed")

	// ErrNotificationFailed indicates a notification sink could not record a reward.
	ErrNotificationFailed = errors.New("notification failed")

	// ErrMisconfigured indicates required configuration is missing or malformed.
	ErrMisconfigured = errors.New("misconfigured")
)
