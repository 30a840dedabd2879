package delivery

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

const zoneColumns = `
id, name, city, region, delivery_cost, free_delivery_from,
estimated_days_min, estimated_days_max, is_active, created_at, updated_at`

const pointColumns = `
id, name, address, city, phone, working_hours, is_active, created_at, updated_at`

func (r *postgresRepo) ZoneByCity(ctx context.Context, city string) (*domain.DeliveryZone, error) {
	z, err := scanZone(r.pool.QueryRow(ctx,
		"SELECT "+zoneColumns+" FROM delivery_zones WHERE lower(city) = lower($1) AND is_active LIMIT 1", city))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeliveryNotAvailable
		}
		return nil, err
	}
	return z, nil
}

func (r *postgresRepo) ZoneByID(ctx context.Context, id int64) (*domain.DeliveryZone, error) {
	z, err := scanZone(r.pool.QueryRow(ctx, "SELECT "+zoneColumns+" FROM delivery_zones WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return z, nil
}

func (r *postgresRepo) ListZones(ctx context.Context) ([]domain.DeliveryZone, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+zoneColumns+" FROM delivery_zones ORDER BY city ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []domain.DeliveryZone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, *z)
	}
	return zones, rows.Err()
}

func (r *postgresRepo) CreateZone(ctx context.Context, z *domain.DeliveryZone) error {
	const q = `
INSERT INTO delivery_zones (name, city, region, delivery_cost, free_delivery_from, estimated_days_min, estimated_days_max, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q,
		z.Name, z.City, z.Region, z.DeliveryCost, z.FreeDeliveryFrom,
		z.EstimatedDaysMin, z.EstimatedDaysMax, z.IsActive,
	).Scan(&z.ID, &z.CreatedAt, &z.UpdatedAt)
}

func (r *postgresRepo) UpdateZone(ctx context.Context, z *domain.DeliveryZone) error {
	const q = `
UPDATE delivery_zones SET
	name = $2, city = $3, region = $4, delivery_cost = $5, free_delivery_from = $6,
	estimated_days_min = $7, estimated_days_max = $8, is_active = $9, updated_at = now()
WHERE id = $1
RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q,
		z.ID, z.Name, z.City, z.Region, z.DeliveryCost, z.FreeDeliveryFrom,
		z.EstimatedDaysMin, z.EstimatedDaysMax, z.IsActive,
	).Scan(&z.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *postgresRepo) DeleteZone(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM delivery_zones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) PointsByCity(ctx context.Context, city string) ([]domain.PickupPoint, error) {
	return r.queryPoints(ctx,
		"SELECT "+pointColumns+" FROM pickup_points WHERE lower(city) = lower($1) AND is_active ORDER BY name ASC", city)
}

func (r *postgresRepo) PointByID(ctx context.Context, id int64) (*domain.PickupPoint, error) {
	p, err := scanPoint(r.pool.QueryRow(ctx, "SELECT "+pointColumns+" FROM pickup_points WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListPoints(ctx context.Context) ([]domain.PickupPoint, error) {
	return r.queryPoints(ctx, "SELECT "+pointColumns+" FROM pickup_points ORDER BY city ASC, name ASC")
}

func (r *postgresRepo) CreatePoint(ctx context.Context, p *domain.PickupPoint) error {
	const q = `
INSERT INTO pickup_points (name, address, city, phone, working_hours, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q,
		p.Name, p.Address, p.City, p.Phone, p.WorkingHours, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepo) UpdatePoint(ctx context.Context, p *domain.PickupPoint) error {
	const q = `
UPDATE pickup_points SET
	name = $2, address = $3, city = $4, phone = $5, working_hours = $6, is_active = $7, updated_at = now()
WHERE id = $1
RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Address, p.City, p.Phone, p.WorkingHours, p.IsActive,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *postgresRepo) DeletePoint(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pickup_points WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryPoints(ctx context.Context, q string, args ...interface{}) ([]domain.PickupPoint, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.PickupPoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *p)
	}
	return points, rows.Err()
}

func scanZone(row pgx.Row) (*domain.DeliveryZone, error) {
	var z domain.DeliveryZone
	if err := row.Scan(
		&z.ID, &z.Name, &z.City, &z.Region, &z.DeliveryCost, &z.FreeDeliveryFrom,
		&z.EstimatedDaysMin, &z.EstimatedDaysMax, &z.IsActive, &z.CreatedAt, &z.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &z, nil
}

func scanPoint(row pgx.Row) (*domain.PickupPoint, error) {
	var p domain.PickupPoint
	if err := row.Scan(
		&p.ID, &p.Name, &p.Address, &p.City, &p.Phone,
		&p.WorkingHours, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
