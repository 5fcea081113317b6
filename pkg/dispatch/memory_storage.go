package dispatch

import (
	"context"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// MemoryStorage composes the in-memory notification and delivery
// storages into a dispatch Storage, for tests and development. The
// atomicity guarantee of the PostgreSQL implementation is approximated:
// single-process writes never observe a notification without its
// deliveries because both are written under this call.
type MemoryStorage struct {
	notifications *notification.MemoryStorage
	deliveries    *delivery.MemoryStorage
}

// NewMemoryStorage creates a dispatch storage over the two in-memory
// stores, so dispatch, delivery tracking, and the feed share state.
func NewMemoryStorage(n *notification.MemoryStorage, d *delivery.MemoryStorage) *MemoryStorage {
	return &MemoryStorage{notifications: n, deliveries: d}
}

func (s *MemoryStorage) CreateNotificationWithDeliveries(ctx context.Context, n notify.Notification, deliveries []notify.Delivery) error {
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return err
	}
	for _, d := range deliveries {
		if err := s.deliveries.CreateDelivery(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStorage) ListStalePendingDeliveries(ctx context.Context, olderThan time.Time, limit int) ([]notify.Delivery, error) {
	return s.deliveries.ListStalePending(ctx, olderThan, limit)
}
