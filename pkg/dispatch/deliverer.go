package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/queue"
)

// NotificationReader loads notification content for delivery.
// The notification package storages satisfy it.
type NotificationReader interface {
	GetNotification(ctx context.Context, id uuid.UUID) (notify.Notification, error)
}

// Sender routes a send to a channel backend. *channel.Registry satisfies it.
type Sender interface {
	Send(ctx context.Context, ch notify.Channel, user notify.User, n notify.Notification) error
}

// Deliverer processes delivery jobs. The delivery row is the single
// source of retry truth: the deliverer records every outcome on the row
// and returns nil to the queue, so queue-level job retries remain
// reserved for infrastructure faults (storage down, worker crash).
type Deliverer struct {
	tracker       *delivery.Tracker
	notifications NotificationReader
	users         notify.UserDirectory
	sender        Sender
	enqueuer      Enqueuer
	cfg           Config
	log           *slog.Logger
}

// DelivererOption configures a Deliverer during construction.
type DelivererOption func(*Deliverer)

// WithDelivererLogger sets the deliverer's logger.
func WithDelivererLogger(log *slog.Logger) DelivererOption {
	return func(d *Deliverer) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDeliverer wires a deliverer from its collaborators.
func NewDeliverer(
	tracker *delivery.Tracker,
	notifications NotificationReader,
	users notify.UserDirectory,
	sender Sender,
	enqueuer Enqueuer,
	cfg Config,
	opts ...DelivererOption,
) (*Deliverer, error) {
	if tracker == nil || notifications == nil || users == nil || sender == nil {
		return nil, errors.New("tracker, notifications, users, and sender are required")
	}
	if enqueuer == nil {
		return nil, ErrEnqueuerNil
	}

	d := &Deliverer{
		tracker:       tracker,
		notifications: notifications,
		users:         users,
		sender:        sender,
		enqueuer:      enqueuer,
		cfg:           cfg.normalize(),
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With(logger.Component("deliverer"))
	return d, nil
}

// Handler returns the queue handler for DeliverJob payloads.
func (d *Deliverer) Handler() queue.Handler {
	return queue.NewJobHandler(d.deliver)
}

// deliver runs one delivery attempt. Errors returned here go back to
// the queue and retry the job itself; everything domain-level is
// recorded on the delivery row instead.
func (d *Deliverer) deliver(ctx context.Context, job DeliverJob) error {
	del, err := d.tracker.Get(ctx, job.DeliveryID)
	if err != nil {
		if errors.Is(err, notify.ErrDeliveryNotFound) {
			// Row is gone; retrying the job cannot bring it back.
			d.log.ErrorContext(ctx, "delivery job references missing row",
				logger.DeliveryID(job.DeliveryID))
			return nil
		}
		return fmt.Errorf("load delivery: %w", err)
	}
	if del.Terminal() {
		d.log.DebugContext(ctx, "delivery already terminal, skipping",
			logger.DeliveryID(del.ID),
			slog.String("status", string(del.Status)))
		return nil
	}

	n, err := d.notifications.GetNotification(ctx, del.NotificationID)
	if err != nil {
		return fmt.Errorf("load notification: %w", err)
	}

	user, err := d.users.GetUser(ctx, n.UserID)
	if err != nil {
		if errors.Is(err, notify.ErrUserNotFound) {
			return d.recordFailure(ctx, del, channel.Permanent("user not found", err))
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := d.tracker.MarkAttempt(ctx, del.ID); err != nil {
		return err
	}

	if sendErr := d.sender.Send(ctx, del.Channel, user, n); sendErr != nil {
		return d.recordFailure(ctx, del, sendErr)
	}

	if err := d.tracker.MarkSent(ctx, del.ID); err != nil {
		return err
	}
	d.log.InfoContext(ctx, "delivery sent",
		logger.DeliveryID(del.ID),
		logger.NotificationID(del.NotificationID),
		logger.Channel(del.Channel),
	)
	return nil
}

// recordFailure writes the outcome to the delivery row and schedules
// the next attempt when the retry budget allows one.
func (d *Deliverer) recordFailure(ctx context.Context, del notify.Delivery, sendErr error) error {
	retryable := channel.IsRetryable(sendErr)

	outcome, err := d.tracker.MarkFailed(ctx, del.ID, sendErr.Error(), retryable, d.cfg.MaxAttempts)
	if err != nil {
		return err
	}
	if !outcome.Applied || outcome.Terminal {
		d.log.WarnContext(ctx, "delivery failed permanently",
			logger.DeliveryID(del.ID),
			logger.Channel(del.Channel),
			logger.RetryCount(outcome.RetryCount),
			logger.Error(sendErr),
		)
		return nil
	}

	// Exponent is the retry count before this failure.
	delay := d.cfg.Backoff(outcome.RetryCount - 1)
	err = d.enqueuer.Enqueue(ctx, DeliverJob{DeliveryID: del.ID},
		queue.WithQueue(d.cfg.Queue), queue.WithDelay(delay))
	if err != nil {
		// The row stays pending; the sweeper re-enqueues if this job
		// never lands.
		return fmt.Errorf("schedule retry: %w", err)
	}

	d.log.WarnContext(ctx, "delivery failed, retry scheduled",
		logger.DeliveryID(del.ID),
		logger.Channel(del.Channel),
		logger.RetryCount(outcome.RetryCount),
		logger.Duration(delay),
		logger.Error(sendErr),
	)
	return nil
}
