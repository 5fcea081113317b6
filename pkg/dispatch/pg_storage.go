package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

// PGStorage is the PostgreSQL write side of dispatch. It shares tables
// with the notification and delivery storages but owns the one write
// that must be transactional.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL dispatch storage.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) CreateNotificationWithDeliveries(ctx context.Context, n notify.Notification, deliveries []notify.Delivery) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO notifications (id, user_id, event_type, title, message, context, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, $7)`,
			n.ID, n.UserID, n.EventType, n.Title, n.Message, n.Context, n.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}

		for _, d := range deliveries {
			_, err := tx.Exec(ctx, `
				INSERT INTO notification_deliveries (id, notification_id, channel, status, retry_count, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				d.ID, d.NotificationID, d.Channel, d.Status, d.RetryCount, d.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert delivery: %w", err)
			}
		}
		return nil
	})
}

func (s *PGStorage) ListStalePendingDeliveries(ctx context.Context, olderThan time.Time, limit int) ([]notify.Delivery, error) {
	query := `
		SELECT id, notification_id, channel, status, retry_count, attempted_at, delivered_at, error_message, created_at
		FROM notification_deliveries
		WHERE status = 'pending'
		  AND GREATEST(created_at, COALESCE(attempted_at, created_at)) < $1
		ORDER BY created_at
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("select stale deliveries: %w", err)
	}
	defer rows.Close()

	var out []notify.Delivery
	for rows.Next() {
		var (
			d      notify.Delivery
			errMsg *string
		)
		err := rows.Scan(
			&d.ID, &d.NotificationID, &d.Channel, &d.Status, &d.RetryCount,
			&d.AttemptedAt, &d.DeliveredAt, &errMsg, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan stale delivery: %w", err)
		}
		if errMsg != nil {
			d.ErrorMessage = *errMsg
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
