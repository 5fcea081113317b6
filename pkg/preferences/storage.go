package preferences

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Storage persists per-user channel toggles and per-event overrides.
type Storage interface {
	// EnsureChannelPreference returns the user's channel preference row,
	// creating an all-enabled one on first access. Concurrent first
	// accesses for the same user must converge on a single row.
	EnsureChannelPreference(ctx context.Context, userID string) (notify.ChannelPreference, error)

	// SetChannelPreference upserts the user's channel toggles.
	SetChannelPreference(ctx context.Context, userID string, pref notify.ChannelPreference) error

	// GetEventPreference returns the user's override for an event type,
	// or ErrEventPreferenceNotFound when none is set.
	GetEventPreference(ctx context.Context, userID, eventType string) (notify.EventPreference, error)

	// SetEventPreference upserts a per-event override.
	SetEventPreference(ctx context.Context, pref notify.EventPreference) error

	// DeleteEventPreference removes an override, restoring the event
	// type's default behavior. Deleting a missing override is a no-op.
	DeleteEventPreference(ctx context.Context, userID, eventType string) error
}
