package delivery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// MemoryStorage is an in-memory Storage for tests and development.
type MemoryStorage struct {
	mu         sync.RWMutex
	deliveries map[uuid.UUID]notify.Delivery
}

// NewMemoryStorage creates an empty in-memory delivery storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		deliveries: make(map[uuid.UUID]notify.Delivery),
	}
}

// CreateDelivery inserts a delivery row. Used by tests and by the
// in-memory dispatch storage.
func (s *MemoryStorage) CreateDelivery(_ context.Context, d notify.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries[d.ID] = d
	return nil
}

func (s *MemoryStorage) GetDelivery(_ context.Context, id uuid.UUID) (notify.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.deliveries[id]
	if !ok {
		return notify.Delivery{}, fmt.Errorf("%w: %s", notify.ErrDeliveryNotFound, id)
	}
	return d, nil
}

func (s *MemoryStorage) MarkAttempted(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deliveries[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", notify.ErrDeliveryNotFound, id)
	}
	if d.Status != notify.DeliveryStatusPending {
		return false, nil
	}
	d.AttemptedAt = &at
	s.deliveries[id] = d
	return true, nil
}

func (s *MemoryStorage) MarkSent(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deliveries[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", notify.ErrDeliveryNotFound, id)
	}
	if d.Status != notify.DeliveryStatusPending {
		return false, nil
	}
	d.Status = notify.DeliveryStatusSent
	d.DeliveredAt = &at
	d.ErrorMessage = ""
	s.deliveries[id] = d
	return true, nil
}

func (s *MemoryStorage) FailPermanent(_ context.Context, id uuid.UUID, errMsg string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deliveries[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", notify.ErrDeliveryNotFound, id)
	}
	if d.Status != notify.DeliveryStatusPending {
		return false, nil
	}
	d.Status = notify.DeliveryStatusFailed
	d.ErrorMessage = errMsg
	d.AttemptedAt = &at
	s.deliveries[id] = d
	return true, nil
}

func (s *MemoryStorage) FailRetryable(_ context.Context, id uuid.UUID, errMsg string, at time.Time, maxAttempts int) (notify.Delivery, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deliveries[id]
	if !ok {
		return notify.Delivery{}, false, fmt.Errorf("%w: %s", notify.ErrDeliveryNotFound, id)
	}
	if d.Status != notify.DeliveryStatusPending {
		return d, false, nil
	}

	d.RetryCount++
	d.ErrorMessage = errMsg
	d.AttemptedAt = &at
	if d.RetryCount >= maxAttempts {
		d.Status = notify.DeliveryStatusFailed
	}
	s.deliveries[id] = d
	return d, true, nil
}

// ListStalePending returns pending deliveries whose last activity
// (attempt, or creation when never attempted) predates olderThan.
func (s *MemoryStorage) ListStalePending(_ context.Context, olderThan time.Time, limit int) ([]notify.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []notify.Delivery
	for _, d := range s.deliveries {
		if d.Status != notify.DeliveryStatusPending {
			continue
		}
		lastActivity := d.CreatedAt
		if d.AttemptedAt != nil && d.AttemptedAt.After(lastActivity) {
			lastActivity = *d.AttemptedAt
		}
		if lastActivity.Before(olderThan) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStorage) CountByStatus(_ context.Context, notificationID uuid.UUID) (map[notify.DeliveryStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[notify.DeliveryStatus]int)
	for _, d := range s.deliveries {
		if d.NotificationID == notificationID {
			counts[d.Status]++
		}
	}
	return counts, nil
}

func (s *MemoryStorage) ListByNotification(_ context.Context, notificationID uuid.UUID) ([]notify.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []notify.Delivery
	for _, d := range s.deliveries {
		if d.NotificationID == notificationID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
