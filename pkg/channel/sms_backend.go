package channel

import (
	"context"
	"errors"

	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/sms"
)

// smsBodyLimit keeps messages inside a single SMS segment.
const smsBodyLimit = 160

// SMSBackend sends notifications as text messages. Title and message are
// joined and truncated to a single segment.
type SMSBackend struct {
	sender sms.Sender
}

// NewSMSBackend creates the sms channel backend.
func NewSMSBackend(sender sms.Sender) *SMSBackend {
	return &SMSBackend{sender: sender}
}

func (b *SMSBackend) Channel() notify.Channel {
	return notify.ChannelSMS
}

func (b *SMSBackend) Send(ctx context.Context, user notify.User, n notify.Notification) error {
	if user.Phone == "" {
		return missingContact(notify.ChannelSMS, user.ID)
	}

	err := b.sender.SendSMS(ctx, sms.SendSMSParams{
		SendTo: user.Phone,
		Body:   smsBody(n.Title, n.Message),
	})
	if err != nil {
		if errors.Is(err, sms.ErrInvalidParams) {
			return Permanent("invalid sms params", err)
		}
		var provErr *sms.ProviderError
		if errors.As(err, &provErr) && provErr.Permanent() {
			return Permanent("sms rejected by provider", err)
		}
		return Transient("send sms", err)
	}
	return nil
}

// smsBody joins title and message and truncates on a rune boundary.
func smsBody(title, message string) string {
	body := title
	if message != "" {
		body += "\n" + message
	}

	runes := []rune(body)
	if len(runes) <= smsBodyLimit {
		return body
	}
	return string(runes[:smsBodyLimit])
}
