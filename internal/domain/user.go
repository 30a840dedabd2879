package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"firstName,omitempty"`
	LastName     *string   `json:"lastName,omitempty"`
	Role         string    `json:"role"`
	ReferralCode string    `json:"referralCode"`
	ReferredBy   *int64    `json:"referredBy,omitempty"`
	BonusBalance float64   `json:"bonusBalance"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	BonusAccrual    = "accrual"
	BonusRedemption = "redemption"
	BonusReferral   = "referral"
)

type BonusTransaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	OrderID   *int64    `json:"orderId,omitempty"`
	Amount    float64   `json:"amount"`
	Kind      string    `json:"kind"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
