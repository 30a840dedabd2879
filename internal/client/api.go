package client

import (
	"context"
	"net/http"
	"strconv"

	"printshop/internal/domain"
)

type Session struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	c.SetSession(out.AccessToken, out.RefreshToken)
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.ClearSession()
	return err
}

func (c *Client) Cart(ctx context.Context) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodPost, "/api/v1/cart/items",
		map[string]interface{}{"productId": productID, "quantity": quantity}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodPatch, itemPath(itemID),
		map[string]interface{}{"quantity": quantity}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodDelete, itemPath(itemID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/cart", nil, nil)
}

func (c *Client) ValidatePromo(ctx context.Context, code string, orderTotal float64) (*domain.PromoValidationResult, error) {
	var out domain.PromoValidationResult
	err := c.do(ctx, http.MethodPost, "/api/v1/promo/validate",
		map[string]interface{}{"code": code, "orderTotal": orderTotal}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CalculateDelivery(ctx context.Context, city string, orderTotal float64) (*domain.DeliveryCalculation, error) {
	var out domain.DeliveryCalculation
	err := c.do(ctx, http.MethodPost, "/api/v1/delivery/calculate",
		map[string]interface{}{"city": city, "orderTotal": orderTotal}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// OrderDraft is the checkout submission payload.
type OrderDraft struct {
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   *string          `json:"customerEmail,omitempty"`
	DeliveryMethod  string           `json:"deliveryMethod"`
	DeliveryAddress *string          `json:"deliveryAddress,omitempty"`
	City            string           `json:"city,omitempty"`
	PickupPointID   *int64           `json:"pickupPointId,omitempty"`
	PaymentMethod   string           `json:"paymentMethod"`
	PromoCode       *string          `json:"promoCode,omitempty"`
	BonusToUse      float64          `json:"bonusToUse,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	Items           []OrderDraftItem `json:"items"`
}

type OrderDraftItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TrackOrder(ctx context.Context, number string) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+number, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func itemPath(itemID int64) string {
	return "/api/v1/cart/items/" + strconv.FormatInt(itemID, 10)
}
