package review

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

const reviewColumns = `id, product_id, order_id, user_id, author_name, rating, body, is_approved, created_at`

func (r *postgresRepo) Create(ctx context.Context, rv *domain.Review) error {
	const q = `
INSERT INTO reviews (product_id, order_id, user_id, author_name, rating, body)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, is_approved, created_at`
	err := r.pool.QueryRow(ctx, q,
		rv.ProductID, rv.OrderID, rv.UserID, rv.AuthorName, rv.Rating, rv.Text,
	).Scan(&rv.ID, &rv.IsApproved, &rv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrReviewExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (r *postgresRepo) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE order_id = $1)`, orderID).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) ListApprovedByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	return r.query(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE product_id = $1 AND is_approved ORDER BY created_at DESC",
		productID)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	return r.query(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE user_id = $1 ORDER BY created_at DESC", userID)
}

func (r *postgresRepo) List(ctx context.Context, pendingOnly bool, page, limit int) ([]domain.Review, int64, error) {
	whereClause := ""
	if pendingOnly {
		whereClause = "WHERE NOT is_approved"
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reviews "+whereClause).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	reviews, err := r.query(ctx,
		"SELECT "+reviewColumns+" FROM reviews "+whereClause+" ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *postgresRepo) SetApproved(ctx context.Context, id int64, approved bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE reviews SET is_approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(
		&rv.ID, &rv.ProductID, &rv.OrderID, &rv.UserID, &rv.AuthorName,
		&rv.Rating, &rv.Text, &rv.IsApproved, &rv.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rv, nil
}
