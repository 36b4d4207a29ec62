package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
)

type reminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderSettingsRepository instantiates a Postgres-backed reminder settings repository.
func NewReminderSettingsRepository(pool *pgxpool.Pool) repository.ReminderSettingsRepository {
	return &reminderRepository{pool: pool}
}

func (r *reminderRepository) Get(ctx context.Context, userID string) (*domain.EmailReminderSettings, error) {
	const query = `
	SELECT user_id, enabled, days_before, email, created_at, updated_at
	FROM reminder_settings
	WHERE user_id = $1
	`
	row := r.pool.QueryRow(ctx, query, userID)

	var settings domain.EmailReminderSettings
	if err := row.Scan(
		&settings.UserID,
		&settings.Enabled,
		&settings.DaysBefore,
		&settings.Email,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}

	return &settings, nil
}

func (r *reminderRepository) Upsert(ctx context.Context, settings *domain.EmailReminderSettings) error {
	if settings == nil || settings.UserID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO reminder_settings (user_id, enabled, days_before, email, created_at, updated_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), NOW())
	ON CONFLICT (user_id) DO UPDATE
	SET enabled = EXCLUDED.enabled,
		days_before = EXCLUDED.days_before,
		email = EXCLUDED.email,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		settings.UserID,
		settings.Enabled,
		settings.DaysBefore,
		settings.Email,
		nullTime(settings.CreatedAt),
	).Scan(&settings.CreatedAt, &settings.UpdatedAt); err != nil {
		return err
	}

	return nil
}
