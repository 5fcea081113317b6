package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

const defaultSendTimeout = 30 * time.Second

// Registry holds the backend for each channel and routes sends to them.
// Registration happens at startup; the registry is read-only afterwards,
// so no locking is needed on the send path.
type Registry struct {
	backends    map[notify.Channel]Backend
	sendTimeout time.Duration
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithSendTimeout bounds each backend send. Zero or negative values are
// ignored.
func WithSendTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.sendTimeout = d
		}
	}
}

// NewRegistry creates a registry from the given backends.
func NewRegistry(backends []Backend, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		backends:    make(map[notify.Channel]Backend, len(backends)),
		sendTimeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, b := range backends {
		ch := b.Channel()
		if !ch.Valid() {
			return nil, fmt.Errorf("backend for invalid channel %q", ch)
		}
		if _, exists := r.backends[ch]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBackend, ch)
		}
		r.backends[ch] = b
	}
	return r, nil
}

// Send routes the notification to the channel's backend under the
// configured timeout.
func (r *Registry) Send(ctx context.Context, ch notify.Channel, user notify.User, n notify.Notification) error {
	backend, ok := r.backends[ch]
	if !ok {
		// Retrying cannot conjure a backend into existence.
		return Permanent("no backend for channel "+string(ch), ErrBackendNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, r.sendTimeout)
	defer cancel()

	return backend.Send(ctx, user, n)
}

// Channels returns the channels with a registered backend.
func (r *Registry) Channels() []notify.Channel {
	out := make([]notify.Channel, 0, len(r.backends))
	for _, ch := range notify.Channels {
		if _, ok := r.backends[ch]; ok {
			out = append(out, ch)
		}
	}
	return out
}
