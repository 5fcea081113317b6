package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/pg"
)

// PGStorage is a PostgreSQL-backed Storage over the
// notification_deliveries table. Status transitions are single
// conditional UPDATE statements, so guards hold without explicit
// row locking.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL delivery storage.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

const deliveryColumns = `id, notification_id, channel, status, retry_count, attempted_at, delivered_at, error_message, created_at`

func (s *PGStorage) GetDelivery(ctx context.Context, id uuid.UUID) (notify.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM notification_deliveries WHERE id = $1`

	d, err := scanDelivery(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return notify.Delivery{}, fmt.Errorf("%w: %s", notify.ErrDeliveryNotFound, id)
		}
		return notify.Delivery{}, fmt.Errorf("select delivery: %w", err)
	}
	return d, nil
}

func (s *PGStorage) MarkAttempted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE notification_deliveries
		SET attempted_at = $2
		WHERE id = $1 AND status = 'pending'`

	tag, err := s.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("mark attempted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, s.requireExists(ctx, id)
	}
	return true, nil
}

func (s *PGStorage) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE notification_deliveries
		SET status = 'sent', delivered_at = $2, error_message = NULL
		WHERE id = $1 AND status = 'pending'`

	tag, err := s.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("mark sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, s.requireExists(ctx, id)
	}
	return true, nil
}

func (s *PGStorage) FailPermanent(ctx context.Context, id uuid.UUID, errMsg string, at time.Time) (bool, error) {
	query := `
		UPDATE notification_deliveries
		SET status = 'failed', error_message = $2, attempted_at = $3
		WHERE id = $1 AND status = 'pending'`

	tag, err := s.pool.Exec(ctx, query, id, errMsg, at)
	if err != nil {
		return false, fmt.Errorf("fail permanent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, s.requireExists(ctx, id)
	}
	return true, nil
}

func (s *PGStorage) FailRetryable(ctx context.Context, id uuid.UUID, errMsg string, at time.Time, maxAttempts int) (notify.Delivery, bool, error) {
	query := `
		UPDATE notification_deliveries
		SET retry_count = retry_count + 1,
		    status = CASE WHEN retry_count + 1 >= $4 THEN 'failed' ELSE 'pending' END,
		    error_message = $2,
		    attempted_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + deliveryColumns

	d, err := scanDelivery(s.pool.QueryRow(ctx, query, id, errMsg, at, maxAttempts))
	if err != nil {
		if pg.IsNotFoundError(err) {
			// Already terminal or missing; fetch to distinguish.
			current, getErr := s.GetDelivery(ctx, id)
			if getErr != nil {
				return notify.Delivery{}, false, getErr
			}
			return current, false, nil
		}
		return notify.Delivery{}, false, fmt.Errorf("fail retryable: %w", err)
	}
	return d, true, nil
}

func (s *PGStorage) CountByStatus(ctx context.Context, notificationID uuid.UUID) (map[notify.DeliveryStatus]int, error) {
	query := `
		SELECT status, count(*)
		FROM notification_deliveries
		WHERE notification_id = $1
		GROUP BY status`

	rows, err := s.pool.Query(ctx, query, notificationID)
	if err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}
	defer rows.Close()

	counts := make(map[notify.DeliveryStatus]int)
	for rows.Next() {
		var (
			status notify.DeliveryStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan delivery count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (s *PGStorage) ListByNotification(ctx context.Context, notificationID uuid.UUID) ([]notify.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM notification_deliveries
		WHERE notification_id = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, notificationID)
	if err != nil {
		return nil, fmt.Errorf("select deliveries: %w", err)
	}
	defer rows.Close()

	var out []notify.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// requireExists turns a zero-row conditional update into either a
// not-found error or a clean no-op.
func (s *PGStorage) requireExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDelivery(ctx, id); err != nil {
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (notify.Delivery, error) {
	var (
		d      notify.Delivery
		errMsg *string
	)
	err := row.Scan(
		&d.ID, &d.NotificationID, &d.Channel, &d.Status, &d.RetryCount,
		&d.AttemptedAt, &d.DeliveredAt, &errMsg, &d.CreatedAt)
	if err != nil {
		return notify.Delivery{}, err
	}
	if errMsg != nil {
		d.ErrorMessage = *errMsg
	}
	return d, nil
}
