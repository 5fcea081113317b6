package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

var (
	// ErrBackendNotFound is returned when sending on a channel with no
	// registered backend.
	ErrBackendNotFound = errors.New("backend not found")

	// ErrDuplicateBackend is returned when registering two backends for
	// the same channel.
	ErrDuplicateBackend = errors.New("backend already registered")
)

// Error is a send failure classified by retryability. Backends wrap the
// underlying provider error so callers can still unwrap it.
type Error struct {
	Retryable bool
	Reason    string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Permanent builds a send failure retries cannot fix.
func Permanent(reason string, err error) *Error {
	return &Error{Retryable: false, Reason: reason, Err: err}
}

// Transient builds a send failure worth retrying.
func Transient(reason string, err error) *Error {
	return &Error{Retryable: true, Reason: reason, Err: err}
}

// IsRetryable classifies an arbitrary send error. Unclassified errors
// and timeouts count as retryable: retrying a send that would fail
// forever wastes attempts, but giving up on a transient fault loses a
// notification.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var chErr *Error
	if errors.As(err, &chErr) {
		return chErr.Retryable
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return true
}

// missingContact builds the permanent failure for a user without the
// contact detail a channel requires.
func missingContact(ch notify.Channel, userID string) *Error {
	return Permanent(fmt.Sprintf("user %s has no %s contact", userID, ch), nil)
}
