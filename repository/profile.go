package repository

import (
	"context"

	"github.com/startsmart/backend/domain"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.BusinessCompliance, error)
	Upsert(ctx context.Context, profile *domain.BusinessCompliance) error
}
