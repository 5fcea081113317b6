package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Resolver decides which channels a notification actually goes out on for
// a given user and event type. Precedence, strongest first:
//
//  1. A per-event override set by the user (disabled kills the event
//     entirely, enabled opts into it).
//  2. The event type's default_enabled flag, for users with no override.
//  3. The user's global channel toggles, intersected with the channels
//     the event type supports.
type Resolver struct {
	storage Storage
}

// NewResolver creates a resolver over the given storage.
func NewResolver(storage Storage) (*Resolver, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	return &Resolver{storage: storage}, nil
}

// Resolve returns the channels to deliver on. An empty slice means the
// user receives nothing for this event.
func (r *Resolver) Resolve(ctx context.Context, userID string, et notify.EventType) ([]notify.Channel, error) {
	enabled, err := r.eventEnabled(ctx, userID, et)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}

	channelPref, err := r.storage.EnsureChannelPreference(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure channel preference for %s: %w", userID, err)
	}

	var channels []notify.Channel
	for _, ch := range et.Channels {
		if channelPref.Enabled(ch) {
			channels = append(channels, ch)
		}
	}
	return channels, nil
}

func (r *Resolver) eventEnabled(ctx context.Context, userID string, et notify.EventType) (bool, error) {
	override, err := r.storage.GetEventPreference(ctx, userID, et.Code)
	if err != nil {
		if errors.Is(err, ErrEventPreferenceNotFound) {
			return et.DefaultEnabled, nil
		}
		return false, fmt.Errorf("get event preference for %s/%s: %w", userID, et.Code, err)
	}
	return override.Enabled, nil
}

// ChannelPreference returns the user's global channel toggles, creating
// the all-enabled default row on first access.
func (r *Resolver) ChannelPreference(ctx context.Context, userID string) (notify.ChannelPreference, error) {
	return r.storage.EnsureChannelPreference(ctx, userID)
}

// SetChannelPreference updates the user's global channel toggles.
func (r *Resolver) SetChannelPreference(ctx context.Context, userID string, pref notify.ChannelPreference) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	return r.storage.SetChannelPreference(ctx, userID, pref)
}

// SetEventPreference sets or replaces the user's override for an event type.
func (r *Resolver) SetEventPreference(ctx context.Context, pref notify.EventPreference) error {
	if pref.UserID == "" {
		return ErrEmptyUserID
	}
	if pref.EventType == "" {
		return ErrEmptyEventType
	}
	return r.storage.SetEventPreference(ctx, pref)
}

// SetEventPreferences applies several per-event overrides for one user.
// Validation runs up front so either every override is well-formed or
// nothing is written; storage writes themselves are applied one by one
// and stop at the first error.
func (r *Resolver) SetEventPreferences(ctx context.Context, userID string, prefs []notify.EventPreference) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	for _, pref := range prefs {
		if pref.EventType == "" {
			return ErrEmptyEventType
		}
	}
	for _, pref := range prefs {
		pref.UserID = userID
		if err := r.storage.SetEventPreference(ctx, pref); err != nil {
			return fmt.Errorf("set preference for %s: %w", pref.EventType, err)
		}
	}
	return nil
}

// ClearEventPreference removes the user's override, restoring the event
// type's default behavior.
func (r *Resolver) ClearEventPreference(ctx context.Context, userID, eventType string) error {
	return r.storage.DeleteEventPreference(ctx, userID, eventType)
}
