package promo

import (
	"context"

	"printshop/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.PromoCode, error)
	GetByID(ctx context.Context, id int64) (*domain.PromoCode, error)
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	Create(ctx context.Context, p *domain.PromoCode) error
	Update(ctx context.Context, p *domain.PromoCode) error
	Delete(ctx context.Context, id int64) error
	IncrementUsedCount(ctx context.Context, id int64) error
}
