package analytics

import (
	"context"
	"time"

	"printshop/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// Dashboard aggregates order, user and review counters for the admin
// landing page. Revenue counts delivered orders only.
func (r *postgresRepo) Dashboard(ctx context.Context, since time.Time) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		OrdersByStatus: map[domain.Status]int64{},
	}

	err := r.pool.QueryRow(ctx, `
SELECT
	COALESCE(SUM(total_price) FILTER (WHERE status = 'delivered'), 0),
	COUNT(*)
FROM orders
WHERE created_at >= $1`, since).Scan(&stats.Revenue, &stats.OrderCount)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&stats.NewUsers)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE NOT is_approved`).Scan(&stats.PendingReviews)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT status, COUNT(*)
FROM orders
WHERE created_at >= $1
GROUP BY status`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var st domain.Status
		var n int64
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[st] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
SELECT oi.product_id, p.name, SUM(oi.quantity), SUM(oi.price * oi.quantity)
FROM order_items oi
JOIN products p ON p.id = oi.product_id
JOIN orders o ON o.id = oi.order_id
WHERE o.created_at >= $1 AND o.status <> 'cancelled' AND oi.product_id IS NOT NULL
GROUP BY oi.product_id, p.name
ORDER BY SUM(oi.quantity) DESC
LIMIT 5`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tp domain.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.Sold, &tp.Revenue); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, tp)
	}
	return stats, rows.Err()
}
