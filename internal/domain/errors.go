package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")

	ErrProductInactive   = errors.New("product is not available")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrPromoInactive   = errors.New("promo code is not active")
	ErrPromoNotStarted = errors.New("promo code is not yet active")
	ErrPromoExpired    = errors.New("promo code has expired")
	ErrPromoUsedUp     = errors.New("promo code usage limit reached")
	ErrPromoMinAmount  = errors.New("order total below minimum amount")

	ErrDeliveryNotAvailable = errors.New("delivery not available for this city")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOrderNotCustom    = errors.New("order is not a custom order")
	ErrOrderNotDelivered = errors.New("order is not delivered")

	ErrReviewExists = errors.New("review already submitted for this order")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrInsufficientBonus = errors.New("insufficient bonus balance")
)
