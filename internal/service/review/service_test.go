package review

import (
	"context"
	"errors"
	"testing"

	"printshop/internal/domain"
)

type stubReviewRepo struct {
	created *domain.Review
	exists  bool
}

func (s *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	rv.ID = 1
	s.created = rv
	return nil
}

func (s *stubReviewRepo) GetByID(_ context.Context, _ int64) (*domain.Review, error) {
	return s.created, nil
}

func (s *stubReviewRepo) ExistsForOrder(_ context.Context, _ int64) (bool, error) {
	return s.exists, nil
}

func (s *stubReviewRepo) ListApprovedByProduct(_ context.Context, _ int64) ([]domain.Review, error) {
	return nil, nil
}

func (s *stubReviewRepo) ListByUser(_ context.Context, _ int64) ([]domain.Review, error) {
	return nil, nil
}

func (s *stubReviewRepo) List(_ context.Context, _ bool, _, _ int) ([]domain.Review, int64, error) {
	return nil, 0, nil
}

func (s *stubReviewRepo) SetApproved(_ context.Context, _ int64, approved bool) error {
	if s.created != nil {
		s.created.IsApproved = approved
	}
	return nil
}

func (s *stubReviewRepo) Delete(_ context.Context, _ int64) error { return nil }

type stubOrderRepo struct {
	order *domain.Order
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

type stubUserRepo struct {
	user *domain.User
}

func (s *stubUserRepo) GetByID(_ context.Context, _ int64) (*domain.User, error) {
	if s.user == nil {
		return nil, domain.ErrNotFound
	}
	return s.user, nil
}

func deliveredOrder(userID, productID int64) *domain.Order {
	return &domain.Order{
		ID:     9,
		UserID: &userID,
		Status: domain.StatusDelivered,
		Items:  []domain.OrderItem{{ProductID: &productID, Quantity: 1}},
	}
}

func TestCreate(t *testing.T) {
	firstName := "Мария"
	reviews := &stubReviewRepo{}
	svc := New(reviews,
		&stubOrderRepo{order: deliveredOrder(7, 3)},
		&stubUserRepo{user: &domain.User{ID: 7, FirstName: &firstName}})

	rv, err := svc.Create(context.Background(), 7, CreateInput{
		OrderID:   9,
		ProductID: 3,
		Rating:    5,
		Text:      "Great print quality",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rv.AuthorName != "Мария" {
		t.Fatalf("author = %q, want first name", rv.AuthorName)
	}
	if rv.IsApproved {
		t.Fatal("new review must await moderation")
	}
}

func TestCreate_AuthorFallback(t *testing.T) {
	svc := New(&stubReviewRepo{},
		&stubOrderRepo{order: deliveredOrder(7, 3)},
		&stubUserRepo{user: &domain.User{ID: 7}})

	rv, err := svc.Create(context.Background(), 7, CreateInput{OrderID: 9, ProductID: 3, Rating: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rv.AuthorName != "Customer" {
		t.Fatalf("author = %q, want Customer", rv.AuthorName)
	}
}

func TestCreate_Rejections(t *testing.T) {
	base := func() (*stubReviewRepo, *stubOrderRepo, *stubUserRepo) {
		return &stubReviewRepo{},
			&stubOrderRepo{order: deliveredOrder(7, 3)},
			&stubUserRepo{user: &domain.User{ID: 7}}
	}

	t.Run("foreign order hidden as not found", func(t *testing.T) {
		reviews, orders, users := base()
		svc := New(reviews, orders, users)
		_, err := svc.Create(context.Background(), 8, CreateInput{OrderID: 9, ProductID: 3, Rating: 5})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("order not delivered", func(t *testing.T) {
		reviews, orders, users := base()
		orders.order.Status = domain.StatusReady
		svc := New(reviews, orders, users)
		_, err := svc.Create(context.Background(), 7, CreateInput{OrderID: 9, ProductID: 3, Rating: 5})
		if !errors.Is(err, domain.ErrOrderNotDelivered) {
			t.Fatalf("err = %v, want ErrOrderNotDelivered", err)
		}
	})

	t.Run("product not in order", func(t *testing.T) {
		reviews, orders, users := base()
		svc := New(reviews, orders, users)
		_, err := svc.Create(context.Background(), 7, CreateInput{OrderID: 9, ProductID: 99, Rating: 5})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("already reviewed", func(t *testing.T) {
		reviews, orders, users := base()
		reviews.exists = true
		svc := New(reviews, orders, users)
		_, err := svc.Create(context.Background(), 7, CreateInput{OrderID: 9, ProductID: 3, Rating: 5})
		if !errors.Is(err, domain.ErrReviewExists) {
			t.Fatalf("err = %v, want ErrReviewExists", err)
		}
	})

	t.Run("rating out of range", func(t *testing.T) {
		reviews, orders, users := base()
		svc := New(reviews, orders, users)
		for _, rating := range []int{0, 6} {
			if _, err := svc.Create(context.Background(), 7, CreateInput{OrderID: 9, ProductID: 3, Rating: rating}); err == nil {
				t.Fatalf("rating %d accepted", rating)
			}
		}
	})
}
