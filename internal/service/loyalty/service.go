package loyalty

import (
	"context"
	"errors"

	"printshop/internal/domain"
	loyaltyrepo "printshop/internal/repository/loyalty"
)

type Service struct {
	repo loyaltyrepo.Repository
}

func New(repo loyaltyrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Settings(ctx context.Context) (*domain.LoyaltySettings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, in domain.LoyaltySettings) (*domain.LoyaltySettings, error) {
	if in.AccrualPercent < 0 || in.AccrualPercent > 100 {
		return nil, errors.New("accrual percent must be between 0 and 100")
	}
	if in.MaxRedeemShare < 0 || in.MaxRedeemShare > 1 {
		return nil, errors.New("max redeem share must be between 0 and 1")
	}
	if in.ReferralBonus < 0 {
		return nil, errors.New("referral bonus must not be negative")
	}
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	in.ID = current.ID
	if err := s.repo.Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}
