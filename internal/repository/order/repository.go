package order

import (
	"context"

	"printshop/internal/domain"
)

type Repository interface {
	// Create persists the order, its items, and custom details (when
	// present) in one transaction, filling in generated ids.
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	SetTracking(ctx context.Context, id int64, trackingNumber string) error
	SetPaid(ctx context.Context, id int64, paid bool) error
	SetTotals(ctx context.Context, id int64, subtotal, total float64) error
	NextOrderNumber(ctx context.Context) (string, error)
}
