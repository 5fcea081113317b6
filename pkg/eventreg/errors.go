package eventreg

import "errors"

var (
	// ErrStorageNil is returned when constructing a registry without storage.
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrEmptyCode is returned when an event type has no code.
	ErrEmptyCode = errors.New("event type code cannot be empty")

	// ErrNoChannels is returned when an event type declares no channels.
	ErrNoChannels = errors.New("event type must declare at least one channel")

	// ErrInvalidChannel is returned when an event type declares an
	// unsupported channel.
	ErrInvalidChannel = errors.New("invalid channel")
)
