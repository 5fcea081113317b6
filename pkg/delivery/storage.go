package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// Storage persists delivery rows. All status mutations are conditional on
// the row still being pending: a mutation that matches no pending row
// reports applied=false instead of an error, which is how terminal rows
// stay immutable under concurrent or replayed workers.
type Storage interface {
	// GetDelivery returns a delivery by ID, or notify.ErrDeliveryNotFound.
	GetDelivery(ctx context.Context, id uuid.UUID) (notify.Delivery, error)

	// MarkAttempted stamps attempted_at on a pending delivery.
	MarkAttempted(ctx context.Context, id uuid.UUID, at time.Time) (applied bool, err error)

	// MarkSent transitions pending -> sent and stamps delivered_at.
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (applied bool, err error)

	// FailPermanent transitions pending -> failed without touching
	// retry_count.
	FailPermanent(ctx context.Context, id uuid.UUID, errMsg string, at time.Time) (applied bool, err error)

	// FailRetryable increments retry_count and, when the new count has
	// reached maxAttempts, transitions pending -> failed; otherwise the
	// row stays pending awaiting the next attempt. Returns the row as it
	// stands after the statement.
	FailRetryable(ctx context.Context, id uuid.UUID, errMsg string, at time.Time, maxAttempts int) (d notify.Delivery, applied bool, err error)

	// CountByStatus aggregates a notification's deliveries by status.
	CountByStatus(ctx context.Context, notificationID uuid.UUID) (map[notify.DeliveryStatus]int, error)

	// ListByNotification returns all deliveries for a notification,
	// oldest first.
	ListByNotification(ctx context.Context, notificationID uuid.UUID) ([]notify.Delivery, error)
}
