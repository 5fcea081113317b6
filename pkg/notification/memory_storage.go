package notification

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
	mu            sync.RWMutex
	notifications map[uuid.UUID]notify.Notification
}

// NewMemoryStorage creates an empty in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		notifications: make(map[uuid.UUID]notify.Notification),
	}
}

// CreateNotification inserts a notification row. Used by tests and by
// the in-memory dispatch storage.
func (s *MemoryStorage) CreateNotification(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
	return nil
}

func (s *MemoryStorage) GetNotification(_ context.Context, id uuid.UUID) (notify.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return notify.Notification{}, fmt.Errorf("%w: %s", notify.ErrNotificationNotFound, id)
	}
	return n, nil
}

func (s *MemoryStorage) ListNotifications(_ context.Context, userID string, opts ListOptions) ([]notify.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []notify.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if opts.UnreadOnly && n.Read {
			continue
		}
		all = append(all, n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", notify.ErrNotificationNotFound, id)
	}
	if n.Read {
		return false, nil
	}
	n.Read = true
	n.ReadAt = &at
	s.notifications[id] = n
	return true, nil
}

func (s *MemoryStorage) MarkAllRead(_ context.Context, userID string, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int
	for id, n := range s.notifications {
		if n.UserID != userID || n.Read {
			continue
		}
		n.Read = true
		n.ReadAt = &at
		s.notifications[id] = n
		changed++
	}
	return changed, nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
