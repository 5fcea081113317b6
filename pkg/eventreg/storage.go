package eventreg

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Storage persists event type definitions. Implementations must return
// notify.ErrUnknownEventType from GetEventType when no row matches and
// notify.ErrEventTypeExists from CreateEventType on duplicate codes.
type Storage interface {
	CreateEventType(ctx context.Context, et notify.EventType) error
	GetEventType(ctx context.Context, code string) (notify.EventType, error)
	ListEventTypes(ctx context.Context, activeOnly bool) ([]notify.EventType, error)
	SetEventTypeActive(ctx context.Context, code string, active bool) error
}
