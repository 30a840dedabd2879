package loyalty

import (
	"context"
	"errors"

	"printshop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// Get returns the single settings row seeded by the initial migration.
func (r *postgresRepo) Get(ctx context.Context) (*domain.LoyaltySettings, error) {
	var s domain.LoyaltySettings
	err := r.pool.QueryRow(ctx, `
SELECT id, accrual_percent, max_redeem_share, referral_bonus, is_enabled, updated_at
FROM loyalty_settings
ORDER BY id ASC
LIMIT 1`).Scan(&s.ID, &s.AccrualPercent, &s.MaxRedeemShare, &s.ReferralBonus, &s.IsEnabled, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) Update(ctx context.Context, s *domain.LoyaltySettings) error {
	err := r.pool.QueryRow(ctx, `
UPDATE loyalty_settings SET
	accrual_percent = $2, max_redeem_share = $3, referral_bonus = $4, is_enabled = $5, updated_at = now()
WHERE id = $1
RETURNING updated_at`,
		s.ID, s.AccrualPercent, s.MaxRedeemShare, s.ReferralBonus, s.IsEnabled,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
