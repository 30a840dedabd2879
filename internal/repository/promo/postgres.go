package promo

import (
	"context"
	"errors"

	"printshop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const promoColumns = `
id, code, discount_type, discount_value, min_order_amount, max_uses, used_count,
is_active, starts_at, expires_at, description, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.PromoCode, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+promoColumns+" FROM promo_codes ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PromoCode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.PromoCode, error) {
	return r.fetchOne(ctx, "WHERE id = $1", id)
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	return r.fetchOne(ctx, "WHERE upper(code) = upper($1)", code)
}

func (r *postgresRepo) Create(ctx context.Context, p *domain.PromoCode) error {
	const q = `
INSERT INTO promo_codes (code, discount_type, discount_value, min_order_amount, max_uses, is_active, starts_at, expires_at, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, used_count, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q,
		p.Code, p.DiscountType, p.DiscountValue, p.MinOrderAmount, p.MaxUses,
		p.IsActive, p.StartsAt, p.ExpiresAt, p.Description,
	).Scan(&p.ID, &p.UsedCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, p *domain.PromoCode) error {
	const q = `
UPDATE promo_codes SET
	code = $2, discount_type = $3, discount_value = $4, min_order_amount = $5,
	max_uses = $6, is_active = $7, starts_at = $8, expires_at = $9, description = $10,
	updated_at = now()
WHERE id = $1
RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q,
		p.ID, p.Code, p.DiscountType, p.DiscountValue, p.MinOrderAmount,
		p.MaxUses, p.IsActive, p.StartsAt, p.ExpiresAt, p.Description,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) IncrementUsedCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE promo_codes SET used_count = used_count + 1, updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *postgresRepo) fetchOne(ctx context.Context, whereClause string, args ...interface{}) (*domain.PromoCode, error) {
	p, err := scanPromo(r.pool.QueryRow(ctx, "SELECT "+promoColumns+" FROM promo_codes "+whereClause, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPromo(row pgx.Row) (*domain.PromoCode, error) {
	var p domain.PromoCode
	if err := row.Scan(
		&p.ID, &p.Code, &p.DiscountType, &p.DiscountValue, &p.MinOrderAmount,
		&p.MaxUses, &p.UsedCount, &p.IsActive, &p.StartsAt, &p.ExpiresAt,
		&p.Description, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
