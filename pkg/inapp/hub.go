package inapp

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Hub delivers in-app notifications to connected clients in real time.
// Publishing to a user with no active subscriptions succeeds: the
// notification row is already persisted, so live push is best effort.
type Hub interface {
	// Publish pushes a notification to all of the user's active
	// subscriptions.
	Publish(ctx context.Context, userID string, n notify.Notification) error

	// Subscribe creates a subscription for a user's notifications. The
	// subscription is cleaned up when the context is cancelled or Close
	// is called.
	Subscribe(ctx context.Context, userID string) (Subscription, error)

	// Close shuts down the hub and closes all subscriptions.
	Close() error
}

// Subscription receives one user's notifications.
// Implementations must be safe for concurrent use.
type Subscription interface {
	// Receive returns the channel notifications arrive on. The channel
	// is closed when the subscription closes.
	Receive() <-chan notify.Notification

	// Close closes the subscription and releases resources.
	// Close is idempotent and safe to call multiple times.
	Close() error
}
