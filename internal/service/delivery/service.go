package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"printshop/internal/domain"
	deliveryrepo "printshop/internal/repository/delivery"
)

type Service struct {
	repo deliveryrepo.Repository
}

func New(repo deliveryrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Calculate returns the courier options and pickup points available in
// a city. The courier cost honours the zone's free-delivery threshold
// against the order total.
func (s *Service) Calculate(ctx context.Context, city string, orderTotal float64) (*domain.DeliveryCalculation, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.New("city required")
	}

	calc := &domain.DeliveryCalculation{
		CourierOptions: []domain.DeliveryOption{},
		PickupPoints:   []domain.PickupPoint{},
	}

	zone, err := s.repo.ZoneByCity(ctx, city)
	switch {
	case err == nil:
		calc.CourierOptions = append(calc.CourierOptions, domain.DeliveryOption{
			Name:          zone.Name,
			Cost:          courierCost(zone, orderTotal),
			EstimatedDays: estimatedDays(zone),
		})
	case errors.Is(err, domain.ErrDeliveryNotAvailable):
		// no courier zone, pickup points may still exist
	default:
		return nil, err
	}

	points, err := s.repo.PointsByCity(ctx, city)
	if err != nil {
		return nil, err
	}
	calc.PickupPoints = points
	calc.HasPickupPoints = len(points) > 0

	if len(calc.CourierOptions) == 0 && !calc.HasPickupPoints {
		return nil, domain.ErrDeliveryNotAvailable
	}
	return calc, nil
}

// CourierCost resolves the charge for courier delivery to a city.
func (s *Service) CourierCost(ctx context.Context, city string, orderTotal float64) (float64, error) {
	zone, err := s.repo.ZoneByCity(ctx, city)
	if err != nil {
		return 0, err
	}
	return courierCost(zone, orderTotal), nil
}

func (s *Service) Point(ctx context.Context, id int64) (*domain.PickupPoint, error) {
	return s.repo.PointByID(ctx, id)
}

func courierCost(zone *domain.DeliveryZone, orderTotal float64) float64 {
	if zone.FreeDeliveryFrom != nil && orderTotal >= *zone.FreeDeliveryFrom {
		return 0
	}
	return zone.DeliveryCost
}

func estimatedDays(zone *domain.DeliveryZone) string {
	if zone.EstimatedDaysMin == zone.EstimatedDaysMax {
		return fmt.Sprintf("%d", zone.EstimatedDaysMin)
	}
	return fmt.Sprintf("%d-%d", zone.EstimatedDaysMin, zone.EstimatedDaysMax)
}

func (s *Service) ListZones(ctx context.Context) ([]domain.DeliveryZone, error) {
	return s.repo.ListZones(ctx)
}

func (s *Service) CreateZone(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error) {
	if err := checkZone(z); err != nil {
		return nil, err
	}
	if err := s.repo.CreateZone(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *Service) UpdateZone(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error) {
	if err := checkZone(z); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateZone(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *Service) DeleteZone(ctx context.Context, id int64) error {
	return s.repo.DeleteZone(ctx, id)
}

func (s *Service) ListPoints(ctx context.Context) ([]domain.PickupPoint, error) {
	return s.repo.ListPoints(ctx)
}

func (s *Service) CreatePoint(ctx context.Context, p *domain.PickupPoint) (*domain.PickupPoint, error) {
	if err := checkPoint(p); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePoint(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePoint(ctx context.Context, p *domain.PickupPoint) (*domain.PickupPoint, error) {
	if err := checkPoint(p); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePoint(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePoint(ctx context.Context, id int64) error {
	return s.repo.DeletePoint(ctx, id)
}

func checkZone(z *domain.DeliveryZone) error {
	z.City = strings.TrimSpace(z.City)
	if z.City == "" {
		return errors.New("city required")
	}
	if z.DeliveryCost < 0 {
		return errors.New("delivery cost must not be negative")
	}
	if z.EstimatedDaysMin > z.EstimatedDaysMax {
		z.EstimatedDaysMin, z.EstimatedDaysMax = z.EstimatedDaysMax, z.EstimatedDaysMin
	}
	return nil
}

func checkPoint(p *domain.PickupPoint) error {
	p.City = strings.TrimSpace(p.City)
	if p.City == "" {
		return errors.New("city required")
	}
	if strings.TrimSpace(p.Address) == "" {
		return errors.New("address required")
	}
	return nil
}
