package product

import (
	"context"
	"errors"
	"strings"

	"printshop/internal/domain"
	productrepo "printshop/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug returns the product only when it is active; inactive
// products are invisible on the storefront.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Suggestions(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < 2 {
		return []string{}, nil
	}
	return s.repo.SearchSuggestions(ctx, prefix, 10)
}

func (s *Service) Create(ctx context.Context, in productrepo.CreateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		in.Slug = slugify(in.Name)
	}
	if in.Price < 0 {
		return nil, errors.New("price must not be negative")
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in productrepo.UpdateProductInput) (*domain.Product, error) {
	if in.Price != nil && *in.Price < 0 {
		return nil, errors.New("price must not be negative")
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddImage(ctx context.Context, img domain.ProductImage) (*domain.ProductImage, error) {
	if strings.TrimSpace(img.URL) == "" {
		return nil, errors.New("url required")
	}
	return s.repo.AddImage(ctx, img)
}

func (s *Service) DeleteImage(ctx context.Context, productID, imageID int64) error {
	return s.repo.DeleteImage(ctx, productID, imageID)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
