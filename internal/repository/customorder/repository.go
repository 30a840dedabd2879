package customorder

import (
	"context"

	"printshop/internal/domain"
)

type Repository interface {
	GetByOrderID(ctx context.Context, orderID int64) (*domain.CustomOrderDetails, error)
	SetAdminNotes(ctx context.Context, orderID int64, notes string) error
	SetFileURLs(ctx context.Context, orderID int64, urls []string) error
}
