package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const orderColumns = `
o.id, o.order_number, o.user_id, o.order_type, o.status,
o.subtotal, o.discount_amount, o.delivery_cost, o.bonus_discount, o.total_price,
o.promo_code, o.delivery_method, o.delivery_address, o.payment_method, o.is_paid,
o.customer_name, o.customer_phone, o.customer_email,
o.pickup_point_id, o.tracking_number, o.notes, o.created_at, o.updated_at`

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (
	order_number, user_id, order_type, status,
	subtotal, discount_amount, delivery_cost, bonus_discount, total_price,
	promo_code, delivery_method, delivery_address, payment_method,
	customer_name, customer_phone, customer_email,
	pickup_point_id, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertOrder,
		o.OrderNumber, o.UserID, o.OrderType, o.Status,
		o.Subtotal, o.DiscountAmount, o.DeliveryCost, o.BonusDiscount, o.TotalPrice,
		o.PromoCode, o.DeliveryMethod, o.DeliveryAddress, o.PaymentMethod,
		o.CustomerName, o.CustomerPhone, o.CustomerEmail,
		o.PickupPointID, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, custom_item_name, quantity, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`,
			o.ID, item.ProductID, item.CustomItemName, item.Quantity, item.UnitPrice, item.TotalPrice,
		).Scan(&item.ID, &item.CreatedAt); err != nil {
			return err
		}
	}

	if o.CustomDetails != nil {
		d := o.CustomDetails
		d.OrderID = o.ID
		fileURLs := d.FileURLs
		if fileURLs == nil {
			fileURLs = []string{}
		}
		if err := tx.QueryRow(ctx, `
INSERT INTO custom_order_details (order_id, client_description, admin_notes, file_urls)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`,
			o.ID, d.ClientDescription, d.AdminNotes, fileURLs,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.fetchOne(ctx, "WHERE o.id = $1", id)
}

func (r *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return r.fetchOne(ctx, "WHERE o.order_number = $1", orderNumber)
}

func (r *postgresRepo) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		where = append(where, "o.status = "+arg(filter.Status))
	}
	if filter.OrderType != "" {
		where = append(where, "o.order_type = "+arg(filter.OrderType))
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf(
			"(o.order_number ILIKE %s OR o.customer_name ILIKE %[1]s OR o.customer_phone ILIKE %[1]s)",
			arg("%"+filter.Search+"%")))
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders o "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	q := fmt.Sprintf("SELECT %s FROM orders o %s ORDER BY o.created_at DESC LIMIT %s OFFSET %s",
		orderColumns, whereClause, arg(limit), arg((page-1)*limit))
	orders, err := r.queryOrders(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	q := "SELECT " + orderColumns + " FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC"
	return r.queryOrders(ctx, q, userID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetTracking(ctx context.Context, id int64, trackingNumber string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET tracking_number = $2, updated_at = now() WHERE id = $1`, id, trackingNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetPaid(ctx context.Context, id int64, paid bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET is_paid = $2, updated_at = now() WHERE id = $1`, id, paid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetTotals(ctx context.Context, id int64, subtotal, total float64) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders SET subtotal = $2, total_price = $3, updated_at = now()
WHERE id = $1`, id, subtotal, total)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) NextOrderNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%d", time.Now().UTC().Format("20060102"), seq), nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, whereClause string, args ...interface{}) (*domain.Order, error) {
	orders, err := r.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders o "+whereClause, args...)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return &orders[0], nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.OrderType, &o.Status,
			&o.Subtotal, &o.DiscountAmount, &o.DeliveryCost, &o.BonusDiscount, &o.TotalPrice,
			&o.PromoCode, &o.DeliveryMethod, &o.DeliveryAddress, &o.PaymentMethod, &o.IsPaid,
			&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
			&o.PickupPointID, &o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadChildren(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) loadChildren(ctx context.Context, o *domain.Order) error {
	rows, err := r.pool.Query(ctx, `
SELECT oi.id, oi.order_id, oi.product_id, oi.custom_item_name,
       oi.quantity, oi.unit_price, oi.total_price, oi.created_at,
       p.id, p.name, p.slug
FROM order_items oi
LEFT JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.id ASC`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = o.Items[:0]
	for rows.Next() {
		var item domain.OrderItem
		var pID *int64
		var pName, pSlug *string
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.CustomItemName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt,
			&pID, &pName, &pSlug,
		); err != nil {
			return err
		}
		if pID != nil {
			item.Product = &domain.Product{ID: *pID, Name: *pName, Slug: *pSlug, Price: item.UnitPrice}
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if o.PickupPointID != nil {
		var pp domain.PickupPoint
		err := r.pool.QueryRow(ctx, `
SELECT id, name, address, city, phone, working_hours, is_active, created_at, updated_at
FROM pickup_points WHERE id = $1`, *o.PickupPointID).Scan(
			&pp.ID, &pp.Name, &pp.Address, &pp.City, &pp.Phone,
			&pp.WorkingHours, &pp.IsActive, &pp.CreatedAt, &pp.UpdatedAt)
		if err == nil {
			o.PickupPoint = &pp
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}

	if o.OrderType == domain.OrderTypeCustom {
		var d domain.CustomOrderDetails
		err := r.pool.QueryRow(ctx, `
SELECT id, order_id, client_description, admin_notes, file_urls, created_at, updated_at
FROM custom_order_details WHERE order_id = $1`, o.ID).Scan(
			&d.ID, &d.OrderID, &d.ClientDescription, &d.AdminNotes, &d.FileURLs, &d.CreatedAt, &d.UpdatedAt)
		if err == nil {
			o.CustomDetails = &d
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	return nil
}
