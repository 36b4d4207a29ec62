// Package reminder stores per-owner reminder policy. Delivery is the
// reminder scanner's job; this package only guarantees the configuration is
// validated, persisted and retrievable.
package reminder

import (
	"context"

	"go.uber.org/zap"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
)

type UseCase struct {
	settings repository.ReminderSettingsRepository
	logger   *zap.Logger
}

func New(settings repository.ReminderSettingsRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		settings: settings,
		logger:   logger,
	}
}

// GetSettings returns the owner's reminder configuration, falling back to
// disabled/30-days-before when nothing has been stored yet.
func (uc *UseCase) GetSettings(ctx context.Context, ownerID string) (*domain.EmailReminderSettings, error) {
	settings, err := uc.settings.Get(ctx, ownerID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.DefaultReminderSettings(ownerID), nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings validates and persists the owner's reminder configuration.
func (uc *UseCase) UpdateSettings(ctx context.Context, ownerID string, enabled bool, daysBefore int, email string) (*domain.EmailReminderSettings, error) {
	settings := &domain.EmailReminderSettings{
		UserID:     ownerID,
		Enabled:    enabled,
		DaysBefore: daysBefore,
		Email:      email,
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := uc.settings.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	uc.logger.Info("reminder settings updated",
		zap.String("user_id", ownerID),
		zap.Bool("enabled", enabled),
		zap.Int("days_before", daysBefore))
	return settings, nil
}
