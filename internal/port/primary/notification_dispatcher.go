package primary

import "context"

// NotificationDispatcher delivers queued reward notifications.
type NotificationDispatcher interface {
	// DispatchPending drains one batch of pending notifications.
	DispatchPending(ctx context.Context) error
}
