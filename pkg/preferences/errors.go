package preferences

import "errors"

var (
	// ErrStorageNil is returned when constructing a resolver without storage.
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrEventPreferenceNotFound is returned by storage when a user has
	// no override for an event type.
	ErrEventPreferenceNotFound = errors.New("event preference not found")

	// ErrEmptyUserID is returned when a preference mutation names no user.
	ErrEmptyUserID = errors.New("user id cannot be empty")

	// ErrEmptyEventType is returned when an override names no event type.
	ErrEmptyEventType = errors.New("event type cannot be empty")
)
