package cart

import (
	"context"
	"errors"

	"printshop/internal/domain"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
	FindByProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error)
	Add(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, itemID, userID int64, quantity int) error
	Remove(ctx context.Context, itemID, userID int64) error
	Clear(ctx context.Context, userID int64) error
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

func (s *Service) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := domain.BuildCart(items)
	return &cart, nil
}

// Add puts quantity units of a product into the user's cart. Adding a
// product already present increases the existing line; the combined
// quantity must stay within stock.
func (s *Service) Add(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrProductInactive
	}

	existing := 0
	if it, err := s.repo.FindByProduct(ctx, userID, productID); err == nil {
		existing = it.Quantity
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing+quantity > p.StockQuantity {
		return nil, domain.ErrInsufficientStock
	}

	if err := s.repo.Add(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID != itemID {
			continue
		}
		if it.Product != nil && quantity > it.Product.StockQuantity {
			return nil, domain.ErrInsufficientStock
		}
		if err := s.repo.UpdateQuantity(ctx, itemID, userID, quantity); err != nil {
			return nil, err
		}
		return s.Get(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (s *Service) Remove(ctx context.Context, userID, itemID int64) (*domain.Cart, error) {
	if err := s.repo.Remove(ctx, itemID, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}
