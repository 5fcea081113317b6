package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Tracker owns the lifecycle of delivery rows: pending -> sent, or
// pending -> failed. Both terminal states are final; any transition
// attempted against a terminal row is an idempotent no-op, so workers can
// be retried or duplicated without corrupting delivery history.
type Tracker struct {
	storage Storage
	log     *slog.Logger
	now     func() time.Time
}

// TrackerOption configures a Tracker during construction.
type TrackerOption func(*Tracker)

// WithLogger sets the logger used for no-op transition notices.
func WithLogger(log *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if log != nil {
			t.log = log
		}
	}
}

// NewTracker creates a tracker over the given storage.
func NewTracker(storage Storage, opts ...TrackerOption) (*Tracker, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	t := &Tracker{
		storage: storage,
		log:     slog.Default(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Get returns a delivery by ID.
func (t *Tracker) Get(ctx context.Context, id uuid.UUID) (notify.Delivery, error) {
	return t.storage.GetDelivery(ctx, id)
}

// MarkAttempt records that a send attempt is starting. No-op when the
// delivery already reached a terminal state.
func (t *Tracker) MarkAttempt(ctx context.Context, id uuid.UUID) error {
	applied, err := t.storage.MarkAttempted(ctx, id, t.now())
	if err != nil {
		return fmt.Errorf("mark attempt %s: %w", id, err)
	}
	if !applied {
		t.log.DebugContext(ctx, "attempt on terminal delivery ignored", slog.String("delivery_id", id.String()))
	}
	return nil
}

// MarkSent transitions a pending delivery to sent. Already-terminal rows
// are left untouched.
func (t *Tracker) MarkSent(ctx context.Context, id uuid.UUID) error {
	applied, err := t.storage.MarkSent(ctx, id, t.now())
	if err != nil {
		return fmt.Errorf("mark sent %s: %w", id, err)
	}
	if !applied {
		t.log.DebugContext(ctx, "sent on terminal delivery ignored", slog.String("delivery_id", id.String()))
	}
	return nil
}

// FailureOutcome describes the result of recording a failed attempt.
type FailureOutcome struct {
	// Terminal reports whether the delivery reached its final failed
	// state. When false the delivery stays pending and should be retried.
	Terminal bool
	// RetryCount is the delivery's retry count after the failure was
	// recorded.
	RetryCount int
	// Applied is false when the delivery was already terminal and the
	// failure was ignored.
	Applied bool
}

// MarkFailed records a failed attempt. Permanent failures finalize the
// delivery immediately without consuming a retry; retryable failures
// increment the retry count and finalize only once maxAttempts is
// reached.
func (t *Tracker) MarkFailed(ctx context.Context, id uuid.UUID, reason string, retryable bool, maxAttempts int) (FailureOutcome, error) {
	if maxAttempts < 1 {
		return FailureOutcome{}, ErrInvalidMaxAttempts
	}

	if !retryable {
		applied, err := t.storage.FailPermanent(ctx, id, reason, t.now())
		if err != nil {
			return FailureOutcome{}, fmt.Errorf("mark failed %s: %w", id, err)
		}
		return FailureOutcome{Terminal: true, Applied: applied}, nil
	}

	d, applied, err := t.storage.FailRetryable(ctx, id, reason, t.now(), maxAttempts)
	if err != nil {
		return FailureOutcome{}, fmt.Errorf("mark failed %s: %w", id, err)
	}
	if !applied {
		t.log.DebugContext(ctx, "failure on terminal delivery ignored", slog.String("delivery_id", id.String()))
		return FailureOutcome{Terminal: true, RetryCount: d.RetryCount, Applied: false}, nil
	}
	return FailureOutcome{
		Terminal:   d.Status == notify.DeliveryStatusFailed,
		RetryCount: d.RetryCount,
		Applied:    true,
	}, nil
}

// Report summarizes a notification's deliveries by status.
func (t *Tracker) Report(ctx context.Context, notificationID uuid.UUID) (map[notify.DeliveryStatus]int, error) {
	return t.storage.CountByStatus(ctx, notificationID)
}

// List returns a notification's deliveries, oldest first.
func (t *Tracker) List(ctx context.Context, notificationID uuid.UUID) ([]notify.Delivery, error) {
	return t.storage.ListByNotification(ctx, notificationID)
}
