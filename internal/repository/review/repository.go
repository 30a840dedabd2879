package review

import (
	"context"

	"printshop/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
	ListApprovedByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
	List(ctx context.Context, pendingOnly bool, page, limit int) ([]domain.Review, int64, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	Delete(ctx context.Context, id int64) error
}
