package repository

import (
	"context"

	"github.com/startsmart/backend/domain"
)

type ReminderSettingsRepository interface {
	Get(ctx context.Context, userID string) (*domain.EmailReminderSettings, error)
	Upsert(ctx context.Context, settings *domain.EmailReminderSettings) error
}
