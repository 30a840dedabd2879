package product

import (
	"context"

	"printshop/internal/domain"
)

type CreateProductInput struct {
	Name          string
	Slug          string
	Description   string
	Price         float64
	OldPrice      *float64
	StockQuantity int
	Material      string
	CategoryID    *int64
	IsActive      bool
}

type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *float64
	OldPrice      *float64
	StockQuantity *int
	Material      *string
	CategoryID    *int64
	IsActive      *bool
}

type Repository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, id int64, qty int) error
	AddImage(ctx context.Context, img domain.ProductImage) (*domain.ProductImage, error)
	DeleteImage(ctx context.Context, productID, imageID int64) error
	SearchSuggestions(ctx context.Context, prefix string, limit int) ([]string, error)
}
