package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/pg"
)

// PGStorage is a PostgreSQL-backed Storage over the notifications table.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL notification storage.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

const notificationColumns = `id, user_id, event_type, title, message, context, read, read_at, created_at`

func (s *PGStorage) GetNotification(ctx context.Context, id uuid.UUID) (notify.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return notify.Notification{}, fmt.Errorf("%w: %s", notify.ErrNotificationNotFound, id)
		}
		return notify.Notification{}, fmt.Errorf("select notification: %w", err)
	}
	return n, nil
}

func (s *PGStorage) ListNotifications(ctx context.Context, userID string, opts ListOptions) ([]notify.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND ($2 = false OR read = false)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := s.pool.Query(ctx, query, userID, opts.UnreadOnly, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	var out []notify.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PGStorage) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE notifications
		SET read = true, read_at = $2
		WHERE id = $1 AND read = false`

	tag, err := s.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either already read or missing; fetch to distinguish.
		if _, err := s.GetNotification(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (s *PGStorage) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	query := `
		UPDATE notifications
		SET read = true, read_at = $2
		WHERE user_id = $1 AND read = false`

	tag, err := s.pool.Exec(ctx, query, userID, at)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PGStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND read = false`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (notify.Notification, error) {
	var n notify.Notification
	err := row.Scan(
		&n.ID, &n.UserID, &n.EventType, &n.Title, &n.Message,
		&n.Context, &n.Read, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return notify.Notification{}, err
	}
	return n, nil
}
