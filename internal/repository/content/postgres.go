package content

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

const blockColumns = `id, key, title, body, is_active, updated_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.ContentBlock, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+blockColumns+" FROM content_blocks ORDER BY key ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContentBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByKey(ctx context.Context, key string) (*domain.ContentBlock, error) {
	b, err := scanBlock(r.pool.QueryRow(ctx,
		"SELECT "+blockColumns+" FROM content_blocks WHERE key = $1 AND is_active", key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateBlockInput) (*domain.ContentBlock, error) {
	const q = `
INSERT INTO content_blocks (key, title, body, is_active)
VALUES ($1, $2, $3, $4)
RETURNING ` + blockColumns
	b, err := scanBlock(r.pool.QueryRow(ctx, q, in.Key, in.Title, in.Body, in.IsActive))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateBlockInput) (*domain.ContentBlock, error) {
	const q = `
UPDATE content_blocks SET
	title = COALESCE($2, title),
	body = COALESCE($3, body),
	is_active = COALESCE($4, is_active),
	updated_at = now()
WHERE id = $1
RETURNING ` + blockColumns
	b, err := scanBlock(r.pool.QueryRow(ctx, q, id, in.Title, in.Body, in.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM content_blocks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBlock(row pgx.Row) (*domain.ContentBlock, error) {
	var b domain.ContentBlock
	if err := row.Scan(&b.ID, &b.Key, &b.Title, &b.Body, &b.IsActive, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
