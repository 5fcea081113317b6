package sms

import (
	"context"
	"fmt"
	"regexp"
)

// Sender represents an interface for sending SMS messages.
type Sender interface {
	SendSMS(ctx context.Context, params SendSMSParams) error
}

// SendSMSParams represents the parameters for sending an SMS.
type SendSMSParams struct {
	SendTo string `json:"send_to"` // Recipient phone number in E.164 format
	Body   string `json:"body"`    // Message text
}

// phoneRegex accepts E.164 numbers: + followed by up to 15 digits.
var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// Validate checks that the params are sendable.
func (p SendSMSParams) Validate() error {
	if p.SendTo == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !phoneRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be an E.164 phone number", ErrInvalidParams)
	}
	if p.Body == "" {
		return fmt.Errorf("%w: Body is required", ErrInvalidParams)
	}
	return nil
}
