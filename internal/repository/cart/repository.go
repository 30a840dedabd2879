package cart

import (
	"context"

	"printshop/internal/domain"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
	FindByProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error)
	Add(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, itemID, userID int64, quantity int) error
	Remove(ctx context.Context, itemID, userID int64) error
	Clear(ctx context.Context, userID int64) error
}
