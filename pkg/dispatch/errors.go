package dispatch

import "errors"

var (
	// ErrStorageNil is returned when a component is constructed without
	// storage.
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrEnqueuerNil is returned when a component is constructed without
	// an enqueuer.
	ErrEnqueuerNil = errors.New("enqueuer cannot be nil")
)
