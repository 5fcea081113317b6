package channel

import (
	"context"
	"errors"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// EmailBackend sends notifications as transactional email. The
// notification title becomes the subject and the message the plain text
// body.
type EmailBackend struct {
	sender email.Sender
}

// NewEmailBackend creates the email channel backend.
func NewEmailBackend(sender email.Sender) *EmailBackend {
	return &EmailBackend{sender: sender}
}

func (b *EmailBackend) Channel() notify.Channel {
	return notify.ChannelEmail
}

func (b *EmailBackend) Send(ctx context.Context, user notify.User, n notify.Notification) error {
	if user.Email == "" {
		return missingContact(notify.ChannelEmail, user.ID)
	}

	err := b.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  n.Title,
		BodyText: n.Message,
		Tag:      n.EventType,
	})
	if err != nil {
		if errors.Is(err, email.ErrInvalidParams) {
			return Permanent("invalid email params", err)
		}
		var provErr *email.ProviderError
		if errors.As(err, &provErr) && provErr.Permanent() {
			return Permanent("email rejected by provider", err)
		}
		return Transient("send email", err)
	}
	return nil
}
