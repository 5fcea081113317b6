package email

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToSendEmail = errors.New("email.errors.failed_to_send_email")
	ErrInvalidConfig     = errors.New("email.errors.invalid_config")
	ErrInvalidParams     = errors.New("email.errors.invalid_params")
)

// ProviderError carries the provider's error code so callers can decide
// whether a failure is worth retrying.
type ProviderError struct {
	Code    int64
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Permanent reports whether the provider rejected the message for a
// reason retries cannot fix. Postmark codes: 300 invalid email address,
// 406 inactive recipient, 422 unreachable recipient domain.
func (e *ProviderError) Permanent() bool {
	switch e.Code {
	case 300, 406, 422:
		return true
	}
	return false
}
