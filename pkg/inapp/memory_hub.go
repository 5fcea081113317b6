package inapp

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

const defaultBufferSize = 32

// MemoryHub is a single-process Hub for tests, development, and
// deployments without Redis. Slow consumers have messages dropped
// rather than blocking the publisher.
type MemoryHub struct {
	mu     sync.RWMutex
	users  map[string]map[string]*memorySubscription
	closed bool
}

type memorySubscription struct {
	id     string
	userID string
	ch     chan notify.Notification
	hub    *MemoryHub
	once   sync.Once
}

// NewMemoryHub creates an in-memory hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		users: make(map[string]map[string]*memorySubscription),
	}
}

func (h *MemoryHub) Publish(_ context.Context, userID string, n notify.Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}
	for _, sub := range h.users[userID] {
		select {
		case sub.ch <- n:
		default:
			// Slow consumer, drop. The notification is persisted and
			// will surface on the next list call.
		}
	}
	return nil
}

func (h *MemoryHub) Subscribe(ctx context.Context, userID string) (Subscription, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}

	sub := &memorySubscription{
		id:     uuid.New().String(),
		userID: userID,
		ch:     make(chan notify.Notification, defaultBufferSize),
		hub:    h,
	}
	subs, ok := h.users[userID]
	if !ok {
		subs = make(map[string]*memorySubscription)
		h.users[userID] = subs
	}
	subs[sub.id] = sub
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub, nil
}

func (h *MemoryHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for _, subs := range h.users {
		for _, sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
		}
	}
	h.users = make(map[string]map[string]*memorySubscription)
	return nil
}

func (s *memorySubscription) Receive() <-chan notify.Notification {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		s.hub.mu.Lock()
		if subs, ok := s.hub.users[s.userID]; ok {
			delete(subs, s.id)
			if len(subs) == 0 {
				delete(s.hub.users, s.userID)
			}
		}
		s.hub.mu.Unlock()
		close(s.ch)
	})
	return nil
}
