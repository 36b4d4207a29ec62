// Package profile manages the per-owner business compliance profile that
// drives bulk task seeding.
package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
	"github.com/startsmart/backend/usecase"
)

type UseCase struct {
	profiles repository.ProfileRepository
	buffer   usecase.OperationBuffer
	logger   *zap.Logger
}

func New(profiles repository.ProfileRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles: profiles,
		buffer:   buffer,
		logger:   logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, ownerID string) (*domain.BusinessCompliance, error) {
	return uc.profiles.GetByUserID(ctx, ownerID)
}

// UpsertProfile stores the owner's compliance profile, buffering the write
// when primary storage is unavailable.
func (uc *UseCase) UpsertProfile(ctx context.Context, profile *domain.BusinessCompliance) (*domain.BusinessCompliance, error) {
	if profile == nil || profile.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if profile.StateOfFormation == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "state_of_formation is required")
	}
	if profile.EntityType == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "entity_type is required")
	}

	if err := uc.profiles.Upsert(ctx, profile); err != nil {
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferProfile(ctx, usecase.OperationUpdate, profile); bufErr != nil {
				uc.logger.Error("failed to buffer profile update", zap.Error(bufErr))
				return nil, err
			}
			uc.logger.Warn("profile update buffered due to repository error", zap.Error(err))
			return profile, nil
		}
		return nil, err
	}
	return profile, nil
}
