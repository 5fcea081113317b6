package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/queue"
)

// EventLookup resolves event type codes. *eventreg.Registry satisfies it.
type EventLookup interface {
	Lookup(ctx context.Context, code string) (notify.EventType, error)
}

// ChannelResolver decides a user's channels for an event type.
// *preferences.Resolver satisfies it.
type ChannelResolver interface {
	Resolve(ctx context.Context, userID string, et notify.EventType) ([]notify.Channel, error)
}

// Renderer produces notification content. *template.Registry satisfies it.
type Renderer interface {
	Render(eventType string, context map[string]any) (title, message string, err error)
}

// Enqueuer schedules delivery jobs. *queue.Enqueuer satisfies it.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) error
}

// Dispatcher turns application events into notifications and queued
// deliveries. Each target user gets their own transaction, so one
// failing user never blocks the rest of a fan-out.
type Dispatcher struct {
	events    EventLookup
	resolver  ChannelResolver
	renderer  Renderer
	storage   Storage
	enqueuer  Enqueuer
	cfg       Config
	log       *slog.Logger
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher's logger.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher wires a dispatcher from its collaborators.
func NewDispatcher(
	events EventLookup,
	resolver ChannelResolver,
	renderer Renderer,
	storage Storage,
	enqueuer Enqueuer,
	cfg Config,
	opts ...DispatcherOption,
) (*Dispatcher, error) {
	if events == nil || resolver == nil || renderer == nil {
		return nil, errors.New("events, resolver, and renderer are required")
	}
	if storage == nil {
		return nil, ErrStorageNil
	}
	if enqueuer == nil {
		return nil, ErrEnqueuerNil
	}

	d := &Dispatcher{
		events:   events,
		resolver: resolver,
		renderer: renderer,
		storage:  storage,
		enqueuer: enqueuer,
		cfg:      cfg.normalize(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With(logger.Component("dispatcher"))
	return d, nil
}

// Dispatch creates a notification per target user whose preferences
// resolve to at least one channel, plus one pending delivery per
// resolved channel, and enqueues a delivery job for each.
//
// Targets are treated as a set: duplicate IDs collapse to one
// notification, and an empty target list is a no-op success.
//
// Validation errors (unknown or inactive event type, failed render)
// fail the whole call before anything is written. Per-user write
// failures are collected: the returned IDs cover the users that
// succeeded, and the joined error reports the ones that did not.
func (d *Dispatcher) Dispatch(ctx context.Context, eventCode string, eventContext map[string]any, userIDs []string) ([]uuid.UUID, error) {
	userIDs = dedupe(userIDs)
	if len(userIDs) == 0 {
		return nil, nil
	}

	et, err := d.events.Lookup(ctx, eventCode)
	if err != nil {
		return nil, err
	}

	// Content is identical for every target, render once up front.
	title, message, err := d.renderer.Render(et.Code, eventContext)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", et.Code, err)
	}

	var (
		created []uuid.UUID
		errs    []error
	)
	for _, userID := range userIDs {
		id, err := d.dispatchToUser(ctx, et, userID, title, message, eventContext)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		if id != uuid.Nil {
			created = append(created, id)
		}
	}
	return created, errors.Join(errs...)
}

// dedupe collapses repeated user IDs, keeping first-seen order.
func dedupe(userIDs []string) []string {
	seen := make(map[string]struct{}, len(userIDs))
	out := userIDs[:0:0]
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (d *Dispatcher) dispatchToUser(ctx context.Context, et notify.EventType, userID, title, message string, eventContext map[string]any) (uuid.UUID, error) {
	channels, err := d.resolver.Resolve(ctx, userID, et)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve channels: %w", err)
	}
	if len(channels) == 0 {
		d.log.DebugContext(ctx, "user opted out, skipping",
			logger.UserID(userID),
			logger.EventType(et.Code),
		)
		return uuid.Nil, nil
	}

	n := notify.NewNotification(userID, et.Code, title, message, eventContext)
	deliveries := make([]notify.Delivery, len(channels))
	for i, ch := range channels {
		deliveries[i] = notify.NewDelivery(n.ID, ch)
	}

	if err := d.storage.CreateNotificationWithDeliveries(ctx, n, deliveries); err != nil {
		return uuid.Nil, fmt.Errorf("persist notification: %w", err)
	}

	// Enqueue after commit. A failed enqueue is not a dispatch failure:
	// the delivery row exists, and the sweeper picks up rows that never
	// got a job.
	for _, del := range deliveries {
		err := d.enqueuer.Enqueue(ctx, DeliverJob{DeliveryID: del.ID}, queue.WithQueue(d.cfg.Queue))
		if err != nil {
			d.log.WarnContext(ctx, "enqueue delivery failed, sweeper will recover",
				logger.DeliveryID(del.ID.String()),
				slog.Any("error", err),
			)
		}
	}

	d.log.InfoContext(ctx, "notification dispatched",
		logger.UserID(userID),
		logger.EventType(et.Code),
		logger.NotificationID(n.ID.String()),
		slog.Int("deliveries", len(deliveries)),
	)
	return n.ID, nil
}
