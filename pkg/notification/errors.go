package notification

import "errors"

var (
	// ErrStorageNil is returned when constructing a service without storage.
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrEmptyUserID is returned when a feed operation names no user.
	ErrEmptyUserID = errors.New("user id cannot be empty")
)
