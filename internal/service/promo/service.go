package promo

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"printshop/internal/domain"
	promorepo "printshop/internal/repository/promo"
)

type Service struct {
	repo promorepo.Repository
	now  func() time.Time
}

func New(repo promorepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate checks a code against the order total and returns the
// discount it would produce. Checks run in a fixed order so the caller
// always gets the most specific failure.
func (s *Service) Validate(ctx context.Context, code string, orderTotal float64) (*domain.PromoValidationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}
	p, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case !p.IsActive:
		return nil, domain.ErrPromoInactive
	case p.StartsAt != nil && now.Before(*p.StartsAt):
		return nil, domain.ErrPromoNotStarted
	case p.ExpiresAt != nil && now.After(*p.ExpiresAt):
		return nil, domain.ErrPromoExpired
	case p.MaxUses != nil && p.UsedCount >= *p.MaxUses:
		return nil, domain.ErrPromoUsedUp
	case orderTotal < p.MinOrderAmount:
		return nil, domain.ErrPromoMinAmount
	}

	return &domain.PromoValidationResult{
		Valid:          true,
		Code:           p.Code,
		DiscountType:   p.DiscountType,
		DiscountValue:  p.DiscountValue,
		DiscountAmount: Discount(p.DiscountType, p.DiscountValue, orderTotal),
	}, nil
}

// Discount computes the money value of a promo against a total. The
// result never exceeds the total.
func Discount(discountType string, value, total float64) float64 {
	var d float64
	switch discountType {
	case domain.DiscountPercent:
		d = total * value / 100
	case domain.DiscountFixed:
		d = value
	}
	if d > total {
		d = total
	}
	return math.Round(d*100) / 100
}

func (s *Service) List(ctx context.Context) ([]domain.PromoCode, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.PromoCode, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *domain.PromoCode) (*domain.PromoCode, error) {
	if err := checkPromo(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, p *domain.PromoCode) (*domain.PromoCode, error) {
	if err := checkPromo(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// MarkUsedByCode bumps a code's used counter after an order commits.
func (s *Service) MarkUsedByCode(ctx context.Context, code string) error {
	p, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	return s.repo.IncrementUsedCount(ctx, p.ID)
}

func checkPromo(p *domain.PromoCode) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.Code == "" {
		return errors.New("code required")
	}
	if p.DiscountType != domain.DiscountPercent && p.DiscountType != domain.DiscountFixed {
		return errors.New("unknown discount type")
	}
	if p.DiscountValue <= 0 {
		return errors.New("discount value must be positive")
	}
	if p.DiscountType == domain.DiscountPercent && p.DiscountValue > 100 {
		return errors.New("percent discount cannot exceed 100")
	}
	return nil
}
