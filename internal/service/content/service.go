package content

import (
	"context"
	"errors"
	"strings"

	"printshop/internal/domain"
	contentrepo "printshop/internal/repository/content"
)

type Service struct {
	repo contentrepo.Repository
}

func New(repo contentrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, key string) (*domain.ContentBlock, error) {
	return s.repo.GetByKey(ctx, strings.TrimSpace(key))
}

func (s *Service) List(ctx context.Context) ([]domain.ContentBlock, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, in contentrepo.CreateBlockInput) (*domain.ContentBlock, error) {
	in.Key = strings.TrimSpace(in.Key)
	if in.Key == "" {
		return nil, errors.New("key required")
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in contentrepo.UpdateBlockInput) (*domain.ContentBlock, error) {
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
