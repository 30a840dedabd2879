package cart

import (
	"context"
	"errors"
	"testing"

	"printshop/internal/domain"
)

type stubCartRepo struct {
	items      []domain.CartItem
	existing   *domain.CartItem
	addCalls   int
	lastAddQty int
	updateErr  error
}

func (s *stubCartRepo) ListByUser(_ context.Context, _ int64) ([]domain.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepo) FindByProduct(_ context.Context, _, _ int64) (*domain.CartItem, error) {
	if s.existing == nil {
		return nil, domain.ErrNotFound
	}
	return s.existing, nil
}

func (s *stubCartRepo) Add(_ context.Context, _, _ int64, quantity int) error {
	s.addCalls++
	s.lastAddQty = quantity
	return nil
}

func (s *stubCartRepo) UpdateQuantity(_ context.Context, _, _ int64, _ int) error {
	return s.updateErr
}

func (s *stubCartRepo) Remove(_ context.Context, _, _ int64) error { return nil }
func (s *stubCartRepo) Clear(_ context.Context, _ int64) error     { return nil }

type stubProductRepo struct {
	product *domain.Product
	err     error
}

func (s *stubProductRepo) GetByID(_ context.Context, _ int64) (*domain.Product, error) {
	return s.product, s.err
}

func TestAdd_InactiveProduct(t *testing.T) {
	svc := New(&stubCartRepo{}, &stubProductRepo{product: &domain.Product{ID: 1, StockQuantity: 10}})

	_, err := svc.Add(context.Background(), 7, 1, 1)
	if !errors.Is(err, domain.ErrProductInactive) {
		t.Fatalf("err = %v, want ErrProductInactive", err)
	}
}

func TestAdd_StockCoversCombinedQuantity(t *testing.T) {
	repo := &stubCartRepo{existing: &domain.CartItem{ID: 5, ProductID: 1, Quantity: 8}}
	svc := New(repo, &stubProductRepo{product: &domain.Product{ID: 1, IsActive: true, StockQuantity: 10}})

	_, err := svc.Add(context.Background(), 7, 1, 3)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if repo.addCalls != 0 {
		t.Fatalf("add calls = %d, want 0", repo.addCalls)
	}

	cart, err := svc.Add(context.Background(), 7, 1, 2)
	if err != nil {
		t.Fatalf("add within stock: %v", err)
	}
	if cart == nil {
		t.Fatal("expected cart")
	}
	if repo.lastAddQty != 2 {
		t.Fatalf("added quantity = %d, want 2", repo.lastAddQty)
	}
}

func TestUpdateQuantity_ChecksStock(t *testing.T) {
	repo := &stubCartRepo{items: []domain.CartItem{{
		ID:       5,
		Quantity: 1,
		Product:  &domain.Product{ID: 1, IsActive: true, StockQuantity: 3, Price: 100},
	}}}
	svc := New(repo, &stubProductRepo{})

	_, err := svc.UpdateQuantity(context.Background(), 7, 5, 4)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if _, err := svc.UpdateQuantity(context.Background(), 7, 5, 3); err != nil {
		t.Fatalf("update within stock: %v", err)
	}
}

func TestUpdateQuantity_UnknownItem(t *testing.T) {
	svc := New(&stubCartRepo{}, &stubProductRepo{})

	_, err := svc.UpdateQuantity(context.Background(), 7, 99, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
