package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// ListOptions narrows and pages a user's notification feed.
type ListOptions struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Storage persists notification rows. Implementations must return
// notify.ErrNotificationNotFound when an ID does not match.
type Storage interface {
	// GetNotification returns a notification by ID.
	GetNotification(ctx context.Context, id uuid.UUID) (notify.Notification, error)

	// ListNotifications returns a user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string, opts ListOptions) ([]notify.Notification, error)

	// MarkRead flips a notification to read. Already-read rows keep
	// their original read timestamp; applied is false in that case.
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (applied bool, err error)

	// MarkAllRead flips all of a user's unread notifications and
	// returns how many changed.
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error)

	// CountUnread returns the user's unread notification count.
	CountUnread(ctx context.Context, userID string) (int, error)
}
