package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name          string
	Slug          string
	Description   string
	Price         float64
	StockQuantity int
	Material      string
	CategorySlug  string
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := map[string]string{
		"business-cards": "Business Cards",
		"banners":        "Banners",
		"stickers":       "Stickers",
	}
	catIDs := map[string]int64{}
	for slug, name := range categories {
		id, err := ensureCategory(ctx, pool, slug, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", slug, err)
		}
		catIDs[slug] = id
	}

	products := []productSeed{
		{
			Name:          "Business Cards 100pcs",
			Slug:          "business-cards-100",
			Description:   "Double-sided full-color business cards, 300gsm",
			Price:         990,
			StockQuantity: 100,
			Material:      "coated paper",
			CategorySlug:  "business-cards",
		},
		{
			Name:          "Vinyl Banner 2x1m",
			Slug:          "vinyl-banner-2x1",
			Description:   "Outdoor vinyl banner with eyelets",
			Price:         2490,
			StockQuantity: 40,
			Material:      "vinyl",
			CategorySlug:  "banners",
		},
		{
			Name:          "Die-Cut Stickers 50pcs",
			Slug:          "die-cut-stickers-50",
			Description:   "Weatherproof die-cut stickers, any shape",
			Price:         690,
			StockQuantity: 200,
			Material:      "vinyl film",
			CategorySlug:  "stickers",
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, catIDs[p.CategorySlug], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if err := ensureZone(ctx, pool, "Moscow", 350, 3000); err != nil {
		return fmt.Errorf("ensure zone: %w", err)
	}
	if err := ensurePoint(ctx, pool, "Moscow", "Pickup point Arbat", "Arbat st. 12"); err != nil {
		return fmt.Errorf("ensure pickup point: %w", err)
	}
	if err := ensurePromo(ctx, pool, "WELCOME10", "percent", 10, 1000); err != nil {
		return fmt.Errorf("ensure promo: %w", err)
	}
	if err := ensureAdmin(ctx, pool, "admin@printshop.local", "admin12345"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if err := ensureContent(ctx, pool, "about", "About us", "We print things."); err != nil {
		return fmt.Errorf("ensure content: %w", err)
	}
	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, slug, name string) (int64, error) {
	const q = `
INSERT INTO categories (name, slug, is_active)
VALUES ($1, $2, TRUE)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id`
	var id int64
	err := pool.QueryRow(ctx, q, name, slug).Scan(&id)
	return id, err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID int64, p productSeed) error {
	const q = `
INSERT INTO products (name, slug, description, price, stock_quantity, material, category_id, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
ON CONFLICT (slug) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	price = EXCLUDED.price,
	stock_quantity = EXCLUDED.stock_quantity,
	material = EXCLUDED.material,
	category_id = EXCLUDED.category_id`
	_, err := pool.Exec(ctx, q, p.Name, p.Slug, p.Description, p.Price, p.StockQuantity, p.Material, categoryID)
	return err
}

func ensureZone(ctx context.Context, pool *pgxpool.Pool, city string, cost, freeFrom float64) error {
	const q = `
INSERT INTO delivery_zones (name, city, delivery_cost, free_delivery_from, estimated_days_min, estimated_days_max, is_active)
SELECT $1, $2, $3, $4, 1, 3, TRUE
WHERE NOT EXISTS (SELECT 1 FROM delivery_zones WHERE lower(city) = lower($2))`
	_, err := pool.Exec(ctx, q, "Courier "+city, city, cost, freeFrom)
	return err
}

func ensurePoint(ctx context.Context, pool *pgxpool.Pool, city, name, address string) error {
	const q = `
INSERT INTO pickup_points (name, address, city, working_hours, is_active)
SELECT $1, $2, $3, '10:00-20:00', TRUE
WHERE NOT EXISTS (SELECT 1 FROM pickup_points WHERE name = $1 AND lower(city) = lower($3))`
	_, err := pool.Exec(ctx, q, name, address, city)
	return err
}

func ensurePromo(ctx context.Context, pool *pgxpool.Pool, code, discountType string, value, minAmount float64) error {
	const q = `
INSERT INTO promo_codes (code, discount_type, discount_value, min_order_amount, is_active)
VALUES ($1, $2, $3, $4, TRUE)
ON CONFLICT (code) DO NOTHING`
	_, err := pool.Exec(ctx, q, code, discountType, value, minAmount)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, role, referral_code, is_active)
VALUES ($1, $2, 'admin', 'ADMIN001', TRUE)
ON CONFLICT (email) DO NOTHING`
	_, err = pool.Exec(ctx, q, email, string(hashed))
	return err
}

func ensureContent(ctx context.Context, pool *pgxpool.Pool, key, title, body string) error {
	const q = `
INSERT INTO content_blocks (key, title, body, is_active)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (key) DO NOTHING`
	_, err := pool.Exec(ctx, q, key, title, body)
	return err
}
