package inapp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifykit/pkg/notify"
	redispkg "github.com/dmitrymomot/notifykit/pkg/redis"
)

// RedisHub is a Hub backed by Redis pub/sub, for deployments where the
// publisher (delivery worker) and the subscriber (API process holding
// client connections) are different processes.
type RedisHub struct {
	client     redis.UniversalClient
	ownsClient bool
	log        *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// RedisHubOption configures a RedisHub during construction.
type RedisHubOption func(*RedisHub)

// WithLogger sets the logger used for decode failures on the
// subscription path.
func WithLogger(log *slog.Logger) RedisHubOption {
	return func(h *RedisHub) {
		if log != nil {
			h.log = log
		}
	}
}

// NewRedisHub creates a hub over an existing Redis client. The hub does
// not own the client; closing the hub leaves the client open.
func NewRedisHub(client redis.UniversalClient, opts ...RedisHubOption) *RedisHub {
	h := &RedisHub{
		client: client,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ConnectRedisHub connects to Redis using the given configuration and
// returns a hub over the resulting client. Unlike NewRedisHub, the hub
// owns the connection: Close also closes the underlying client.
func ConnectRedisHub(ctx context.Context, cfg redispkg.Config, opts ...RedisHubOption) (*RedisHub, error) {
	client, err := redispkg.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis hub: %w", err)
	}
	h := NewRedisHub(client, opts...)
	h.ownsClient = true
	return h, nil
}

// userChannel is the pub/sub channel carrying one user's notifications.
func userChannel(userID string) string {
	return "inapp:user:" + userID
}

func (h *RedisHub) Publish(ctx context.Context, userID string, n notify.Notification) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return ErrHubClosed
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := h.client.Publish(ctx, userChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, userID string) (Subscription, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	h.wg.Add(1)
	h.mu.Unlock()

	pubsub := h.client.Subscribe(ctx, userChannel(userID))
	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan notify.Notification, defaultBufferSize),
	}

	go func() {
		defer h.wg.Done()
		defer close(sub.ch)

		for msg := range pubsub.Channel() {
			var n notify.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				h.log.ErrorContext(ctx, "drop undecodable in-app message",
					slog.String("user_id", userID),
					slog.Any("error", err),
				)
				continue
			}
			select {
			case sub.ch <- n:
			default:
				// Slow consumer, drop.
			}
		}
	}()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub, nil
}

// Close marks the hub closed and waits for subscription pumps to drain.
// Active subscriptions must be closed by their owners or via context
// cancellation.
func (h *RedisHub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	h.wg.Wait()
	if h.ownsClient {
		return h.client.Close()
	}
	return nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan notify.Notification
	once   sync.Once
	err    error
}

func (s *redisSubscription) Receive() <-chan notify.Notification {
	return s.ch
}

func (s *redisSubscription) Close() error {
	s.once.Do(func() {
		// Closing the PubSub closes its Channel, which ends the pump
		// goroutine and closes s.ch.
		s.err = s.pubsub.Close()
	})
	return s.err
}
