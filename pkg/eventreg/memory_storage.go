package eventreg

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// MemoryStorage is an in-memory Storage for tests and development.
type MemoryStorage struct {
	mu    sync.RWMutex
	types map[string]notify.EventType
}

// NewMemoryStorage creates an empty in-memory event type storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		types: make(map[string]notify.EventType),
	}
}

func (s *MemoryStorage) CreateEventType(_ context.Context, et notify.EventType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.types[et.Code]; exists {
		return fmt.Errorf("%w: %s", notify.ErrEventTypeExists, et.Code)
	}
	s.types[et.Code] = et
	return nil
}

func (s *MemoryStorage) GetEventType(_ context.Context, code string) (notify.EventType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	et, ok := s.types[code]
	if !ok {
		return notify.EventType{}, fmt.Errorf("%w: %s", notify.ErrUnknownEventType, code)
	}
	return et, nil
}

func (s *MemoryStorage) ListEventTypes(_ context.Context, activeOnly bool) ([]notify.EventType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notify.EventType, 0, len(s.types))
	for _, et := range s.types {
		if activeOnly && !et.Active {
			continue
		}
		out = append(out, et)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *MemoryStorage) SetEventTypeActive(_ context.Context, code string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	et, ok := s.types[code]
	if !ok {
		return fmt.Errorf("%w: %s", notify.ErrUnknownEventType, code)
	}
	et.Active = active
	s.types[code] = et
	return nil
}
