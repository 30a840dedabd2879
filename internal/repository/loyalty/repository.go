package loyalty

import (
	"context"

	"printshop/internal/domain"
)

type Repository interface {
	Get(ctx context.Context) (*domain.LoyaltySettings, error)
	Update(ctx context.Context, s *domain.LoyaltySettings) error
}
