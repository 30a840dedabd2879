package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const productColumns = `
p.id, p.name, p.slug, p.description, p.price, p.old_price, p.stock_quantity,
p.material, p.category_id, p.is_active, p.created_at, p.updated_at,
COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.product_id = p.id AND r.is_approved), 0),
(SELECT COUNT(*) FROM reviews r WHERE r.product_id = p.id AND r.is_approved)`

func (r *postgresRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OnlyActive {
		where = append(where, "p.is_active")
	}
	if filter.CategorySlug != "" {
		where = append(where, fmt.Sprintf(
			"p.category_id IN (SELECT id FROM categories WHERE slug = %s OR parent_id = (SELECT id FROM categories WHERE slug = %[1]s))",
			arg(filter.CategorySlug)))
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %[1]s)", arg("%"+filter.Search+"%")))
	}
	if filter.MinPrice != nil {
		where = append(where, fmt.Sprintf("p.price >= %s", arg(*filter.MinPrice)))
	}
	if filter.MaxPrice != nil {
		where = append(where, fmt.Sprintf("p.price <= %s", arg(*filter.MaxPrice)))
	}
	if filter.Material != "" {
		where = append(where, fmt.Sprintf("p.material = %s", arg(filter.Material)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products p "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "p.created_at DESC"
	switch filter.Sort {
	case domain.SortPriceAsc:
		orderBy = "p.price ASC"
	case domain.SortPriceDesc:
		orderBy = "p.price DESC"
	case domain.SortPopular:
		orderBy = "(SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi WHERE oi.product_id = p.id) DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	q := fmt.Sprintf("SELECT %s FROM products p %s ORDER BY %s LIMIT %s OFFSET %s",
		productColumns, whereClause, orderBy, arg(limit), arg((page-1)*limit))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadImages(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.fetchOne(ctx, "WHERE p.id = $1", id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.fetchOne(ctx, "WHERE p.slug = $1", slug)
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+productColumns+" FROM products p WHERE p.id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, description, price, old_price, stock_quantity, material, category_id, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, q,
		in.Name, in.Slug, in.Description, in.Price, in.OldPrice,
		in.StockQuantity, in.Material, in.CategoryID, in.IsActive,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateProductInput) (*domain.Product, error) {
	const q = `
UPDATE products SET
	name = COALESCE($2, name),
	description = COALESCE($3, description),
	price = COALESCE($4, price),
	old_price = COALESCE($5, old_price),
	stock_quantity = COALESCE($6, stock_quantity),
	material = COALESCE($7, material),
	category_id = COALESCE($8, category_id),
	is_active = COALESCE($9, is_active),
	updated_at = now()
WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, q, id,
		in.Name, in.Description, in.Price, in.OldPrice,
		in.StockQuantity, in.Material, in.CategoryID, in.IsActive)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DecrementStock(ctx context.Context, id int64, qty int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now()
WHERE id = $1 AND stock_quantity >= $2`, id, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *postgresRepo) AddImage(ctx context.Context, img domain.ProductImage) (*domain.ProductImage, error) {
	const q = `
INSERT INTO product_images (product_id, url, url_thumbnail, is_main, sort_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	out := img
	if err := r.pool.QueryRow(ctx, q, img.ProductID, img.URL, img.URLThumbnail, img.IsMain, img.SortOrder).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) DeleteImage(ctx context.Context, productID, imageID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM product_images WHERE id = $1 AND product_id = $2`, imageID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SearchSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
SELECT name FROM products
WHERE is_active AND name ILIKE $1
ORDER BY name ASC
LIMIT $2`, prefix+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *postgresRepo) fetchOne(ctx context.Context, whereClause string, args ...interface{}) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+productColumns+" FROM products p "+whereClause, args...)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	list := []domain.Product{*p}
	if err := r.loadImages(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *postgresRepo) loadImages(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	index := make(map[int64]*domain.Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = &products[i]
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, product_id, url, url_thumbnail, is_main, sort_order
FROM product_images
WHERE product_id = ANY($1)
ORDER BY sort_order ASC, id ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.URLThumbnail, &img.IsMain, &img.SortOrder); err != nil {
			return err
		}
		if p, ok := index[img.ProductID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.OldPrice,
		&p.StockQuantity, &p.Material, &p.CategoryID, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.Rating, &p.ReviewCount,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
