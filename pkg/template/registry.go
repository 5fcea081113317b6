package template

import (
	"fmt"
	"sync"
)

// Registry maps event type codes to render functions. Registration happens
// at startup; rendering happens on every dispatch, so lookups take a read
// lock only.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]RenderFunc
	fallback  RenderFunc
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithFallback sets the renderer used for event types without an explicit
// registration. Without a fallback, rendering an unregistered event type
// fails with ErrRendererNotFound.
func WithFallback(fn RenderFunc) RegistryOption {
	return func(r *Registry) {
		r.fallback = fn
	}
}

// NewRegistry creates an empty template registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		renderers: make(map[string]RenderFunc),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds a render function to an event type code, replacing any
// previous binding for the same code.
func (r *Registry) Register(eventType string, fn RenderFunc) error {
	if fn == nil {
		return ErrNilRenderFunc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[eventType] = fn
	return nil
}

// MustRegister is Register that panics on error, for startup wiring.
func (r *Registry) MustRegister(eventType string, fn RenderFunc) {
	if err := r.Register(eventType, fn); err != nil {
		panic(fmt.Sprintf("template: register %s: %v", eventType, err))
	}
}

// Render produces the title and message for an event type from its context.
// Falls back to the registry fallback when the event type has no renderer.
func (r *Registry) Render(eventType string, context map[string]any) (title, message string, err error) {
	r.mu.RLock()
	fn, ok := r.renderers[eventType]
	if !ok {
		fn = r.fallback
	}
	r.mu.RUnlock()

	if fn == nil {
		return "", "", fmt.Errorf("%w: %s", ErrRendererNotFound, eventType)
	}

	title, message, err = fn(context)
	if err != nil {
		return "", "", fmt.Errorf("render %s: %w", eventType, err)
	}
	return title, message, nil
}
