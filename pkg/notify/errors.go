package notify

import "errors"

var (
	// ErrUnknownEventType is returned when an event type code is not registered.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrInactiveEventType is returned when an event type exists but was deactivated.
	ErrInactiveEventType = errors.New("event type is inactive")

	// ErrEventTypeExists is returned when creating an event type with a taken code.
	ErrEventTypeExists = errors.New("event type already exists")

	// ErrNotificationNotFound is returned when a notification id resolves to nothing.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrDeliveryNotFound is returned when a delivery id resolves to nothing.
	ErrDeliveryNotFound = errors.New("delivery not found")

	// ErrUserNotFound is returned by UserDirectory implementations for unknown users.
	ErrUserNotFound = errors.New("user not found")
)
