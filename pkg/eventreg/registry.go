package eventreg

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Registry is a read-through cache over event type storage. Dispatch hits
// Lookup on every call, so resolved definitions are cached in memory;
// admin mutations go through the registry so the cache stays coherent on
// a single process. Multi-process deployments call Invalidate after
// out-of-band changes.
type Registry struct {
	storage Storage

	mu    sync.RWMutex
	cache map[string]notify.EventType
}

// NewRegistry creates a registry backed by the given storage.
func NewRegistry(storage Storage) (*Registry, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	return &Registry{
		storage: storage,
		cache:   make(map[string]notify.EventType),
	}, nil
}

// Lookup returns the active event type for code. It returns
// notify.ErrUnknownEventType when no definition exists and
// notify.ErrInactiveEventType when the definition is deactivated.
func (r *Registry) Lookup(ctx context.Context, code string) (notify.EventType, error) {
	r.mu.RLock()
	et, ok := r.cache[code]
	r.mu.RUnlock()

	if !ok {
		var err error
		et, err = r.storage.GetEventType(ctx, code)
		if err != nil {
			return notify.EventType{}, err
		}

		r.mu.Lock()
		r.cache[code] = et
		r.mu.Unlock()
	}

	if !et.Active {
		return notify.EventType{}, fmt.Errorf("%w: %s", notify.ErrInactiveEventType, code)
	}
	return et, nil
}

// Create registers a new event type definition.
func (r *Registry) Create(ctx context.Context, et notify.EventType) error {
	if err := validateEventType(et); err != nil {
		return err
	}
	if et.CreatedAt.IsZero() {
		et.CreatedAt = time.Now().UTC()
	}
	et.Active = true

	if err := r.storage.CreateEventType(ctx, et); err != nil {
		return fmt.Errorf("create event type %s: %w", et.Code, err)
	}

	r.mu.Lock()
	r.cache[et.Code] = et
	r.mu.Unlock()
	return nil
}

// Deactivate marks an event type inactive. Existing notifications stay
// untouched; new dispatches for the code are rejected.
func (r *Registry) Deactivate(ctx context.Context, code string) error {
	if err := r.storage.SetEventTypeActive(ctx, code, false); err != nil {
		return fmt.Errorf("deactivate event type %s: %w", code, err)
	}
	r.Invalidate(code)
	return nil
}

// Activate re-enables a deactivated event type.
func (r *Registry) Activate(ctx context.Context, code string) error {
	if err := r.storage.SetEventTypeActive(ctx, code, true); err != nil {
		return fmt.Errorf("activate event type %s: %w", code, err)
	}
	r.Invalidate(code)
	return nil
}

// List returns event type definitions, optionally restricted to active ones.
// List always reads storage; it is an admin operation, not a hot path.
func (r *Registry) List(ctx context.Context, activeOnly bool) ([]notify.EventType, error) {
	return r.storage.ListEventTypes(ctx, activeOnly)
}

// Invalidate drops a single code from the cache.
func (r *Registry) Invalidate(code string) {
	r.mu.Lock()
	delete(r.cache, code)
	r.mu.Unlock()
}

// InvalidateAll drops the whole cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]notify.EventType)
	r.mu.Unlock()
}

func validateEventType(et notify.EventType) error {
	if et.Code == "" {
		return ErrEmptyCode
	}
	if len(et.Channels) == 0 {
		return ErrNoChannels
	}
	for _, ch := range et.Channels {
		if !ch.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidChannel, ch)
		}
	}
	return nil
}
