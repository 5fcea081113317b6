package inapp

import "errors"

var (
	// ErrHubClosed is returned when publishing or subscribing on a
	// closed hub.
	ErrHubClosed = errors.New("hub is closed")
)
