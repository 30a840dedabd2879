package user

import (
	"context"

	"printshop/internal/domain"
)

type CreateUserInput struct {
	Email        string
	Phone        *string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Role         string
	ReferralCode string
	ReferredBy   *int64
}

type UpdateProfileInput struct {
	Phone     *string
	FirstName *string
	LastName  *string
}

type Repository interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByReferralCode(ctx context.Context, code string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domain.User, error)
	CountReferrals(ctx context.Context, userID int64) (int64, error)

	// AdjustBonus applies a balance delta and records the transaction
	// atomically. A negative delta larger than the balance fails with
	// ErrInsufficientBonus.
	AdjustBonus(ctx context.Context, tx domain.BonusTransaction) error
	BonusHistory(ctx context.Context, userID int64) ([]domain.BonusTransaction, error)
}
