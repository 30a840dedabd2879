package analytics

import (
	"context"
	"time"

	"printshop/internal/domain"
)

type Repository interface {
	Dashboard(ctx context.Context, since time.Time) (*domain.DashboardStats, error)
}
