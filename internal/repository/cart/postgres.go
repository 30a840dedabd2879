package cart

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

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	const q = `
SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
       p.id, p.name, p.slug, p.price, p.old_price, p.stock_quantity, p.is_active
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC, ci.id ASC`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		var p domain.Product
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt,
			&p.ID, &p.Name, &p.Slug, &p.Price, &p.OldPrice, &p.StockQuantity, &p.IsActive,
		); err != nil {
			return nil, err
		}
		it.Product = &p
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) FindByProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	const q = `
SELECT id, user_id, product_id, quantity, created_at
FROM cart_items
WHERE user_id = $1 AND product_id = $2`
	var it domain.CartItem
	err := r.pool.QueryRow(ctx, q, userID, productID).Scan(
		&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// Add inserts a line or, when the product is already in the cart,
// accumulates quantity on the existing line.
func (r *postgresRepo) Add(ctx context.Context, userID, productID int64, quantity int) error {
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	_, err := r.pool.Exec(ctx, q, userID, productID, quantity)
	return err
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, itemID, userID int64, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items SET quantity = $3
WHERE id = $1 AND user_id = $2`, itemID, userID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, itemID, userID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
