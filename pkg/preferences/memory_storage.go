package preferences

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

type eventKey struct {
	userID    string
	eventType string
}

// MemoryStorage is an in-memory Storage for tests and development.
type MemoryStorage struct {
	mu       sync.RWMutex
	channels map[string]notify.ChannelPreference
	events   map[eventKey]notify.EventPreference
}

// NewMemoryStorage creates an empty in-memory preference storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		channels: make(map[string]notify.ChannelPreference),
		events:   make(map[eventKey]notify.EventPreference),
	}
}

func (s *MemoryStorage) EnsureChannelPreference(_ context.Context, userID string) (notify.ChannelPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pref, ok := s.channels[userID]
	if !ok {
		pref = notify.DefaultChannelPreference(userID)
		s.channels[userID] = pref
	}
	return pref, nil
}

func (s *MemoryStorage) SetChannelPreference(_ context.Context, userID string, pref notify.ChannelPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[userID] = pref
	return nil
}

func (s *MemoryStorage) GetEventPreference(_ context.Context, userID, eventType string) (notify.EventPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pref, ok := s.events[eventKey{userID, eventType}]
	if !ok {
		return notify.EventPreference{}, fmt.Errorf("%w: %s/%s", ErrEventPreferenceNotFound, userID, eventType)
	}
	return pref, nil
}

func (s *MemoryStorage) SetEventPreference(_ context.Context, pref notify.EventPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[eventKey{pref.UserID, pref.EventType}] = pref
	return nil
}

func (s *MemoryStorage) DeleteEventPreference(_ context.Context, userID, eventType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, eventKey{userID, eventType})
	return nil
}
