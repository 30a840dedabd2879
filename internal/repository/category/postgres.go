package category

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

const categoryColumns = `id, name, slug, parent_id, display_order, is_active, created_at`

func (r *postgresRepo) List(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	q := "SELECT " + categoryColumns + " FROM categories"
	if onlyActive {
		q += " WHERE is_active"
	}
	q += " ORDER BY display_order ASC, id ASC"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return r.fetchOne(ctx, "WHERE id = $1", id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.fetchOne(ctx, "WHERE slug = $1", slug)
}

func (r *postgresRepo) Create(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, slug, parent_id, display_order, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + categoryColumns
	c, err := scanCategory(r.pool.QueryRow(ctx, q, in.Name, in.Slug, in.ParentID, in.DisplayOrder, in.IsActive))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateCategoryInput) (*domain.Category, error) {
	const q = `
UPDATE categories SET
	name = COALESCE($2, name),
	is_active = COALESCE($3, is_active)
WHERE id = $1
RETURNING ` + categoryColumns
	c, err := scanCategory(r.pool.QueryRow(ctx, q, id, in.Name, in.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Reorder(ctx context.Context, id int64, in ReorderInput) (*domain.Category, error) {
	const q = `
UPDATE categories SET parent_id = $2, display_order = $3
WHERE id = $1
RETURNING ` + categoryColumns
	c, err := scanCategory(r.pool.QueryRow(ctx, q, id, in.ParentID, in.DisplayOrder))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, whereClause string, args ...interface{}) (*domain.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, "SELECT "+categoryColumns+" FROM categories "+whereClause, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.DisplayOrder, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
