package domain

import "time"

const (
	OrderTypeRegular = "regular"
	OrderTypeCustom  = "custom"
)

const (
	DeliveryPickup      = "pickup"
	DeliveryCourier     = "courier"
	DeliveryPickupPoint = "pickup_point"
)

const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

type Order struct {
	ID              int64   `json:"id"`
	OrderNumber     string  `json:"orderNumber"`
	UserID          *int64  `json:"userId,omitempty"`
	OrderType       string  `json:"orderType"`
	Status          Status  `json:"status"`
	Subtotal        float64 `json:"subtotal"`
	DiscountAmount  float64 `json:"discountAmount"`
	DeliveryCost    float64 `json:"deliveryCost"`
	BonusDiscount   float64 `json:"bonusDiscount"`
	TotalPrice      float64 `json:"totalPrice"`
	PromoCode       *string `json:"promoCode,omitempty"`
	DeliveryMethod  string  `json:"deliveryMethod"`
	DeliveryAddress *string `json:"deliveryAddress,omitempty"`
	PaymentMethod   string  `json:"paymentMethod"`
	IsPaid          bool    `json:"isPaid"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerEmail   *string `json:"customerEmail,omitempty"`
	PickupPointID   *int64  `json:"pickupPointId,omitempty"`
	TrackingNumber  *string `json:"trackingNumber,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	Items         []OrderItem         `json:"items"`
	PickupPoint   *PickupPoint        `json:"pickupPoint,omitempty"`
	CustomDetails *CustomOrderDetails `json:"customDetails,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"orderId"`
	ProductID *int64 `json:"productId,omitempty"`
	// Custom line fields, used when ProductID is nil.
	CustomItemName *string   `json:"customItemName,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPrice      float64   `json:"unitPrice"`
	TotalPrice     float64   `json:"totalPrice"`
	Product        *Product  `json:"product,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type OrderFilter struct {
	Status    Status
	OrderType string
	Search    string
	Page      int
	Limit     int
}
