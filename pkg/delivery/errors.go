package delivery

import "errors"

var (
	// ErrStorageNil is returned when constructing a tracker without storage.
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrInvalidMaxAttempts is returned when maxAttempts is below 1.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")
)
