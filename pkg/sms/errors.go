package sms

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToSendSMS = errors.New("sms.errors.failed_to_send_sms")
	ErrInvalidConfig   = errors.New("sms.errors.invalid_config")
	ErrInvalidParams   = errors.New("sms.errors.invalid_params")
)

// ProviderError carries the provider's error code so callers can decide
// whether a failure is worth retrying.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Permanent reports whether the provider rejected the message for a
// reason retries cannot fix. Twilio codes: 21211 invalid To number,
// 21408 region not enabled, 21610 recipient unsubscribed, 21614 not a
// mobile number.
func (e *ProviderError) Permanent() bool {
	switch e.Code {
	case 21211, 21408, 21610, 21614:
		return true
	}
	return false
}
