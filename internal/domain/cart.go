package domain

import (
	"math"
	"time"
)

// CartItem is one server-side cart line. Lines are keyed by ID and
// unique per (user, product).
type CartItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// BuildCart derives cart totals from its lines. The price total is
// rounded to 2 decimals to avoid floating-point drift.
func BuildCart(items []CartItem) Cart {
	cart := Cart{Items: items}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	var total float64
	for _, it := range items {
		cart.TotalItems += it.Quantity
		if it.Product != nil {
			total += it.Product.Price * float64(it.Quantity)
		}
	}
	cart.TotalPrice = math.Round(total*100) / 100
	return cart
}
