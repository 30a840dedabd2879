package customorder

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

func (r *postgresRepo) GetByOrderID(ctx context.Context, orderID int64) (*domain.CustomOrderDetails, error) {
	var d domain.CustomOrderDetails
	err := r.pool.QueryRow(ctx, `
SELECT id, order_id, client_description, admin_notes, file_urls, created_at, updated_at
FROM custom_order_details
WHERE order_id = $1`, orderID).Scan(
		&d.ID, &d.OrderID, &d.ClientDescription, &d.AdminNotes, &d.FileURLs, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *postgresRepo) SetAdminNotes(ctx context.Context, orderID int64, notes string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE custom_order_details SET admin_notes = $2, updated_at = now()
WHERE order_id = $1`, orderID, notes)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetFileURLs(ctx context.Context, orderID int64, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE custom_order_details SET file_urls = $2, updated_at = now()
WHERE order_id = $1`, orderID, urls)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
