package category

import (
	"context"
	"errors"
	"strings"

	"printshop/internal/domain"
	categoryrepo "printshop/internal/repository/category"
)

type Service struct {
	repo categoryrepo.Repository
}

func New(repo categoryrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Tree returns active categories nested by parent for the storefront menu.
func (s *Service) Tree(ctx context.Context) ([]domain.Category, error) {
	flat, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(flat), nil
}

// ListAll returns every category, active or not, as a flat list for the
// admin tree editor.
func (s *Service) ListAll(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx, false)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Create(ctx context.Context, in categoryrepo.CreateCategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		in.Slug = strings.Join(strings.Fields(strings.ToLower(in.Name)), "-")
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in categoryrepo.UpdateCategoryInput) (*domain.Category, error) {
	return s.repo.Update(ctx, id, in)
}

// Reorder applies a drag-and-drop move: one call carries both the new
// parent and the new position.
func (s *Service) Reorder(ctx context.Context, id int64, in categoryrepo.ReorderInput) (*domain.Category, error) {
	if in.ParentID != nil && *in.ParentID == id {
		return nil, errors.New("category cannot be its own parent")
	}
	return s.repo.Reorder(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
