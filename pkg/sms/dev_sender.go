package sms

import (
	"context"
	"log/slog"
)

// DevSender implements Sender for local development.
// It logs outgoing messages instead of sending them through a provider.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a development SMS sender that logs messages.
// Passing a nil logger falls back to slog.Default.
func NewDevSender(log *slog.Logger) Sender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{log: log}
}

// SendSMS logs the message at info level.
func (d *DevSender) SendSMS(ctx context.Context, params SendSMSParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	d.log.InfoContext(ctx, "sms (dev)",
		slog.String("send_to", params.SendTo),
		slog.String("body", params.Body),
	)
	return nil
}
