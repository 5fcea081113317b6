package dispatch

import (
	"context"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Storage is the write side of dispatch. CreateNotificationWithDeliveries
// must be atomic: either the notification and all its delivery rows
// commit together, or nothing does.
type Storage interface {
	CreateNotificationWithDeliveries(ctx context.Context, n notify.Notification, deliveries []notify.Delivery) error

	// ListStalePendingDeliveries returns pending deliveries with no
	// activity since olderThan, oldest first. The sweeper re-enqueues
	// them to recover from lost jobs.
	ListStalePendingDeliveries(ctx context.Context, olderThan time.Time, limit int) ([]notify.Delivery, error)
}
