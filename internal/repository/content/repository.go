package content

import (
	"context"

	"printshop/internal/domain"
)

type CreateBlockInput struct {
	Key      string
	Title    string
	Body     string
	IsActive bool
}

type UpdateBlockInput struct {
	Title    *string
	Body     *string
	IsActive *bool
}

type Repository interface {
	List(ctx context.Context) ([]domain.ContentBlock, error)
	GetByKey(ctx context.Context, key string) (*domain.ContentBlock, error)
	Create(ctx context.Context, in CreateBlockInput) (*domain.ContentBlock, error)
	Update(ctx context.Context, id int64, in UpdateBlockInput) (*domain.ContentBlock, error)
	Delete(ctx context.Context, id int64) error
}
