package category

import (
	"context"

	"printshop/internal/domain"
)

type CreateCategoryInput struct {
	Name         string
	Slug         string
	ParentID     *int64
	DisplayOrder int
	IsActive     bool
}

type UpdateCategoryInput struct {
	Name     *string
	IsActive *bool
}

// ReorderInput is the single drag-and-drop update: a new parent and a
// new position within it.
type ReorderInput struct {
	ParentID     *int64
	DisplayOrder int
}

type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, in CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, in UpdateCategoryInput) (*domain.Category, error)
	Reorder(ctx context.Context, id int64, in ReorderInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}
