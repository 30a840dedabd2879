package delivery

import (
	"context"

	"printshop/internal/domain"
)

// Repository covers both delivery zones and pickup points; the two are
// always managed together by the delivery screens.
type Repository interface {
	ZoneByCity(ctx context.Context, city string) (*domain.DeliveryZone, error)
	ZoneByID(ctx context.Context, id int64) (*domain.DeliveryZone, error)
	ListZones(ctx context.Context) ([]domain.DeliveryZone, error)
	CreateZone(ctx context.Context, z *domain.DeliveryZone) error
	UpdateZone(ctx context.Context, z *domain.DeliveryZone) error
	DeleteZone(ctx context.Context, id int64) error

	PointsByCity(ctx context.Context, city string) ([]domain.PickupPoint, error)
	PointByID(ctx context.Context, id int64) (*domain.PickupPoint, error)
	ListPoints(ctx context.Context) ([]domain.PickupPoint, error)
	CreatePoint(ctx context.Context, p *domain.PickupPoint) error
	UpdatePoint(ctx context.Context, p *domain.PickupPoint) error
	DeletePoint(ctx context.Context, id int64) error
}
