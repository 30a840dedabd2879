package review

import (
	"context"
	"errors"
	"strings"

	"printshop/internal/domain"
)

type Service struct {
	repo      reviewRepo
	orderRepo orderRepo
	userRepo  userRepo
}

type reviewRepo interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
	ListApprovedByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
	List(ctx context.Context, pendingOnly bool, page, limit int) ([]domain.Review, int64, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	Delete(ctx context.Context, id int64) error
}

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

func New(repo reviewRepo, orderRepo orderRepo, userRepo userRepo) *Service {
	return &Service{repo: repo, orderRepo: orderRepo, userRepo: userRepo}
}

type CreateInput struct {
	OrderID   int64  `json:"orderId"`
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

// Create accepts a review for a product the user actually received:
// the order must belong to them, be delivered, contain the product,
// and not be reviewed yet. New reviews await moderation.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	o, err := s.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID == nil || *o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if o.Status != domain.StatusDelivered {
		return nil, domain.ErrOrderNotDelivered
	}
	found := false
	for _, it := range o.Items {
		if it.ProductID != nil && *it.ProductID == in.ProductID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	if exists, err := s.repo.ExistsForOrder(ctx, in.OrderID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.ErrReviewExists
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	author := "Customer"
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) != "" {
		author = strings.TrimSpace(*u.FirstName)
	}

	rv := &domain.Review{
		ProductID:  in.ProductID,
		OrderID:    in.OrderID,
		UserID:     userID,
		AuthorName: author,
		Rating:     in.Rating,
		Text:       strings.TrimSpace(in.Text),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.repo.ListApprovedByProduct(ctx, productID)
}

func (s *Service) ListOwn(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListForModeration(ctx context.Context, pendingOnly bool, page, limit int) ([]domain.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, pendingOnly, page, limit)
}

func (s *Service) SetApproved(ctx context.Context, id int64, approved bool) (*domain.Review, error) {
	if err := s.repo.SetApproved(ctx, id, approved); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
