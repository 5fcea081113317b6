package template

import "errors"

var (
	// ErrMissingContextKey is returned when a template references a
	// placeholder absent from the event context.
	ErrMissingContextKey = errors.New("missing context key")

	// ErrRendererNotFound is returned when no renderer is registered for
	// an event type and no fallback is configured.
	ErrRendererNotFound = errors.New("renderer not found")

	// ErrNilRenderFunc is returned when registering a nil render function.
	ErrNilRenderFunc = errors.New("render function cannot be nil")
)
