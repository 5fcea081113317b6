package channel

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Backend sends one notification to one user over one channel.
// Implementations classify their failures with Permanent and Transient
// so the delivery worker knows whether a retry can help.
type Backend interface {
	// Channel returns the channel this backend serves.
	Channel() notify.Channel

	// Send delivers the notification to the user. The user carries the
	// contact details the backend needs; a missing detail (no phone
	// number for SMS, no email address) is a permanent failure.
	Send(ctx context.Context, user notify.User, n notify.Notification) error
}
