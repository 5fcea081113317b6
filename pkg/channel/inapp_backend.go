package channel

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/inapp"
	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// InAppBackend pushes notifications through the in-app hub. The
// notification row is already persisted before delivery starts, so the
// push only feeds live clients.
type InAppBackend struct {
	hub inapp.Hub
}

// NewInAppBackend creates the in_app channel backend.
func NewInAppBackend(hub inapp.Hub) *InAppBackend {
	return &InAppBackend{hub: hub}
}

func (b *InAppBackend) Channel() notify.Channel {
	return notify.ChannelInApp
}

func (b *InAppBackend) Send(ctx context.Context, user notify.User, n notify.Notification) error {
	if err := b.hub.Publish(ctx, user.ID, n); err != nil {
		return Transient("publish in-app notification", err)
	}
	return nil
}
