package preferences

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/pg"
)

// PGStorage is a PostgreSQL-backed Storage over the
// notification_preferences and user_event_preferences tables.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL preference storage.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) EnsureChannelPreference(ctx context.Context, userID string) (notify.ChannelPreference, error) {
	// Upsert-then-read in one round trip. DO NOTHING on conflict keeps a
	// concurrent first access from clobbering explicit toggles, so the
	// RETURNING clause can miss and the inserted CTE falls back to the
	// existing row.
	query := `
		WITH inserted AS (
			INSERT INTO notification_preferences (user_id, in_app_enabled, email_enabled, sms_enabled)
			VALUES ($1, true, true, true)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING in_app_enabled, email_enabled, sms_enabled
		)
		SELECT in_app_enabled, email_enabled, sms_enabled FROM inserted
		UNION ALL
		SELECT in_app_enabled, email_enabled, sms_enabled
		FROM notification_preferences WHERE user_id = $1
		LIMIT 1`

	var pref notify.ChannelPreference
	err := s.pool.QueryRow(ctx, query, userID).Scan(&pref.InApp, &pref.Email, &pref.SMS)
	if err != nil {
		return notify.ChannelPreference{}, fmt.Errorf("ensure channel preference: %w", err)
	}
	return pref, nil
}

func (s *PGStorage) SetChannelPreference(ctx context.Context, userID string, pref notify.ChannelPreference) error {
	query := `
		INSERT INTO notification_preferences (user_id, in_app_enabled, email_enabled, sms_enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			in_app_enabled = EXCLUDED.in_app_enabled,
			email_enabled = EXCLUDED.email_enabled,
			sms_enabled = EXCLUDED.sms_enabled,
			updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, userID, pref.InApp, pref.Email, pref.SMS); err != nil {
		return fmt.Errorf("upsert channel preference: %w", err)
	}
	return nil
}

func (s *PGStorage) GetEventPreference(ctx context.Context, userID, eventType string) (notify.EventPreference, error) {
	query := `
		SELECT user_id, event_type, enabled
		FROM user_event_preferences
		WHERE user_id = $1 AND event_type = $2`

	var pref notify.EventPreference
	err := s.pool.QueryRow(ctx, query, userID, eventType).Scan(&pref.UserID, &pref.EventType, &pref.Enabled)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return notify.EventPreference{}, fmt.Errorf("%w: %s/%s", ErrEventPreferenceNotFound, userID, eventType)
		}
		return notify.EventPreference{}, fmt.Errorf("select event preference: %w", err)
	}
	return pref, nil
}

func (s *PGStorage) SetEventPreference(ctx context.Context, pref notify.EventPreference) error {
	query := `
		INSERT INTO user_event_preferences (user_id, event_type, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_type) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, pref.UserID, pref.EventType, pref.Enabled); err != nil {
		return fmt.Errorf("upsert event preference: %w", err)
	}
	return nil
}

func (s *PGStorage) DeleteEventPreference(ctx context.Context, userID, eventType string) error {
	query := `DELETE FROM user_event_preferences WHERE user_id = $1 AND event_type = $2`

	if _, err := s.pool.Exec(ctx, query, userID, eventType); err != nil {
		return fmt.Errorf("delete event preference: %w", err)
	}
	return nil
}
