package entity

// OutcomeKind classifies how an order webhook was resolved.
type OutcomeKind string

const (
	OutcomeNoCustomer OutcomeKind = "no_customer"
	OutcomeRewarded   OutcomeKind = "rewarded"
	OutcomeNoAction   OutcomeKind = "no_action"
	OutcomeDuplicate  OutcomeKind = "duplicate"
)

// Outcome is the result of processing one verified order webhook.
type Outcome struct {
	Kind          OutcomeKind
	OrderCount    int
	Amount        string
	CustomerEmail string
}

// Message returns the human readable summary sent back to the platform.
func (o *Outcome) Message() string {
	switch o.Kind {
	case OutcomeNoCustomer:
		return "No customer associated"
	case OutcomeRewarded:
		return "Gift card created successfully"
	case OutcomeDuplicate:
		return "Reward already processed for this order"
	default:
		return "Webhook processed, no action needed"
	}
}
