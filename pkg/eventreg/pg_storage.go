package eventreg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/pg"
)

// PGStorage is a PostgreSQL-backed Storage over the event_types table.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL event type storage.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) CreateEventType(ctx context.Context, et notify.EventType) error {
	query := `
		INSERT INTO event_types (code, name, description, channels, default_enabled, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		et.Code, et.Name, et.Description, channelStrings(et.Channels),
		et.DefaultEnabled, et.Active, et.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", notify.ErrEventTypeExists, et.Code)
		}
		return fmt.Errorf("insert event type: %w", err)
	}
	return nil
}

func (s *PGStorage) GetEventType(ctx context.Context, code string) (notify.EventType, error) {
	query := `
		SELECT code, name, description, channels, default_enabled, active, created_at
		FROM event_types
		WHERE code = $1`

	var (
		et       notify.EventType
		channels []string
	)
	err := s.pool.QueryRow(ctx, query, code).Scan(
		&et.Code, &et.Name, &et.Description, &channels,
		&et.DefaultEnabled, &et.Active, &et.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return notify.EventType{}, fmt.Errorf("%w: %s", notify.ErrUnknownEventType, code)
		}
		return notify.EventType{}, fmt.Errorf("select event type: %w", err)
	}
	et.Channels = toChannels(channels)
	return et, nil
}

func (s *PGStorage) ListEventTypes(ctx context.Context, activeOnly bool) ([]notify.EventType, error) {
	query := `
		SELECT code, name, description, channels, default_enabled, active, created_at
		FROM event_types
		WHERE ($1 = false OR active = true)
		ORDER BY code`

	rows, err := s.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("select event types: %w", err)
	}
	defer rows.Close()

	var out []notify.EventType
	for rows.Next() {
		var (
			et       notify.EventType
			channels []string
		)
		if err := rows.Scan(
			&et.Code, &et.Name, &et.Description, &channels,
			&et.DefaultEnabled, &et.Active, &et.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		et.Channels = toChannels(channels)
		out = append(out, et)
	}
	return out, rows.Err()
}

func (s *PGStorage) SetEventTypeActive(ctx context.Context, code string, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE event_types SET active = $2 WHERE code = $1`, code, active)
	if err != nil {
		return fmt.Errorf("update event type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", notify.ErrUnknownEventType, code)
	}
	return nil
}

func channelStrings(channels []notify.Channel) []string {
	out := make([]string, len(channels))
	for i, ch := range channels {
		out[i] = string(ch)
	}
	return out
}

func toChannels(values []string) []notify.Channel {
	out := make([]notify.Channel, len(values))
	for i, v := range values {
		out[i] = notify.Channel(v)
	}
	return out
}
