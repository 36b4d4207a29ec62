package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
)

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates a Postgres-backed compliance profile repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.BusinessCompliance, error) {
	const query = `
	SELECT user_id, state_of_formation, entity_type, fiscal_year_end,
		has_employees, has_retail_sales, industry, created_at, updated_at
	FROM compliance_profiles
	WHERE user_id = $1
	`
	row := r.pool.QueryRow(ctx, query, userID)

	var profile domain.BusinessCompliance
	if err := row.Scan(
		&profile.UserID,
		&profile.StateOfFormation,
		&profile.EntityType,
		&profile.FiscalYearEnd,
		&profile.HasEmployees,
		&profile.HasRetailSales,
		&profile.Industry,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.BusinessCompliance) error {
	if profile == nil || profile.UserID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO compliance_profiles
		(user_id, state_of_formation, entity_type, fiscal_year_end,
		 has_employees, has_retail_sales, industry, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()), NOW())
	ON CONFLICT (user_id) DO UPDATE
	SET state_of_formation = EXCLUDED.state_of_formation,
		entity_type = EXCLUDED.entity_type,
		fiscal_year_end = EXCLUDED.fiscal_year_end,
		has_employees = EXCLUDED.has_employees,
		has_retail_sales = EXCLUDED.has_retail_sales,
		industry = EXCLUDED.industry,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.StateOfFormation,
		profile.EntityType,
		profile.FiscalYearEnd,
		profile.HasEmployees,
		profile.HasRetailSales,
		profile.Industry,
		nullTime(profile.CreatedAt),
	).Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return err
	}

	return nil
}
