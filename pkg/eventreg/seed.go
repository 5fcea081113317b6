package eventreg

import (
	"context"
	"errors"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// DefaultEventTypes returns the built-in event type definitions.
func DefaultEventTypes() []notify.EventType {
	return []notify.EventType{
		{
			Code:           "new_comment",
			Name:           "New Comment",
			Description:    "Someone commented on your post.",
			Channels:       []notify.Channel{notify.ChannelInApp, notify.ChannelEmail},
			DefaultEnabled: true,
			Active:         true,
		},
		{
			Code:           "unrecognized_login",
			Name:           "Unrecognized Login",
			Description:    "A login from an unfamiliar device or location.",
			Channels:       []notify.Channel{notify.ChannelInApp, notify.ChannelEmail, notify.ChannelSMS},
			DefaultEnabled: true,
			Active:         true,
		},
		{
			Code:           "weekly_summary",
			Name:           "Weekly Summary",
			Description:    "A weekly digest of your account activity.",
			Channels:       []notify.Channel{notify.ChannelEmail},
			DefaultEnabled: false,
			Active:         true,
		},
		{
			Code:           "welcome",
			Name:           "Welcome",
			Description:    "Greets a user after signup.",
			Channels:       []notify.Channel{notify.ChannelInApp, notify.ChannelEmail},
			DefaultEnabled: true,
			Active:         true,
		},
	}
}

// Seed inserts the default event types, skipping codes that already exist.
// Safe to run on every startup.
func (r *Registry) Seed(ctx context.Context) error {
	for _, et := range DefaultEventTypes() {
		if err := r.Create(ctx, et); err != nil {
			if errors.Is(err, notify.ErrEventTypeExists) {
				continue
			}
			return err
		}
	}
	return nil
}
