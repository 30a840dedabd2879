package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"printshop/internal/domain"
)

type Service struct {
	repo        orderRepo
	productRepo productRepo
	cartRepo    cartRepo
	userRepo    userRepo
	loyaltyRepo loyaltyRepo
	promos      promoService
	delivery    deliveryService
	logger      *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	SetTracking(ctx context.Context, id int64, trackingNumber string) error
	SetPaid(ctx context.Context, id int64, paid bool) error
	NextOrderNumber(ctx context.Context) (string, error)
}

type productRepo interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
}

type cartRepo interface {
	Clear(ctx context.Context, userID int64) error
}

type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	AdjustBonus(ctx context.Context, tx domain.BonusTransaction) error
}

type loyaltyRepo interface {
	Get(ctx context.Context) (*domain.LoyaltySettings, error)
}

type promoService interface {
	Validate(ctx context.Context, code string, orderTotal float64) (*domain.PromoValidationResult, error)
	MarkUsedByCode(ctx context.Context, code string) error
}

type deliveryService interface {
	CourierCost(ctx context.Context, city string, orderTotal float64) (float64, error)
	Point(ctx context.Context, id int64) (*domain.PickupPoint, error)
}

func New(
	repo orderRepo,
	productRepo productRepo,
	cartRepo cartRepo,
	userRepo userRepo,
	loyaltyRepo loyaltyRepo,
	promos promoService,
	delivery deliveryService,
	logger *log.Logger,
) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		loyaltyRepo: loyaltyRepo,
		promos:      promos,
		delivery:    delivery,
		logger:      logger,
	}
}

type ItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CreateInput struct {
	UserID          *int64      `json:"-"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerEmail   *string     `json:"customerEmail,omitempty"`
	DeliveryMethod  string      `json:"deliveryMethod"`
	DeliveryAddress *string     `json:"deliveryAddress,omitempty"`
	City            string      `json:"city,omitempty"`
	PickupPointID   *int64      `json:"pickupPointId,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
	PromoCode       *string     `json:"promoCode,omitempty"`
	BonusToUse      float64     `json:"bonusToUse,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	Items           []ItemInput `json:"items"`
}

// Create runs the checkout pipeline: price the items, apply the promo
// and bonus discounts, add delivery, persist, then decrement stock and
// clear the cart. The final total never drops below zero.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if err := s.checkCreate(&in); err != nil {
		return nil, err
	}

	items, subtotal, err := s.priceItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	var promoCode *string
	discount := 0.0
	if in.PromoCode != nil && strings.TrimSpace(*in.PromoCode) != "" {
		res, err := s.promos.Validate(ctx, *in.PromoCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = res.DiscountAmount
		promoCode = &res.Code
	}

	deliveryCost, err := s.deliveryCost(ctx, in, subtotal)
	if err != nil {
		return nil, err
	}

	bonus, err := s.bonusRedemption(ctx, in, subtotal-discount)
	if err != nil {
		return nil, err
	}

	total := round2(subtotal - discount - bonus + deliveryCost)
	if total < 0 {
		total = 0
	}

	number, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		OrderNumber:     number,
		UserID:          in.UserID,
		OrderType:       domain.OrderTypeRegular,
		Status:          domain.StatusNew,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		DeliveryCost:    deliveryCost,
		BonusDiscount:   bonus,
		TotalPrice:      total,
		PromoCode:       promoCode,
		DeliveryMethod:  in.DeliveryMethod,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:   in.CustomerEmail,
		PickupPointID:   in.PickupPointID,
		Notes:           in.Notes,
		Items:           items,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	for _, it := range o.Items {
		if it.ProductID == nil {
			continue
		}
		if err := s.productRepo.DecrementStock(ctx, *it.ProductID, it.Quantity); err != nil {
			s.logger.Printf("order %s: decrement stock product=%d: %v", o.OrderNumber, *it.ProductID, err)
		}
	}
	if promoCode != nil {
		if err := s.promos.MarkUsedByCode(ctx, *promoCode); err != nil {
			s.logger.Printf("order %s: mark promo used: %v", o.OrderNumber, err)
		}
	}
	// The order exists at this point; like stock decrement and the
	// promo counter above, a redemption failure must not fail the
	// checkout the customer already completed.
	if bonus > 0 && in.UserID != nil {
		err := s.userRepo.AdjustBonus(ctx, domain.BonusTransaction{
			UserID:  *in.UserID,
			OrderID: &o.ID,
			Amount:  -bonus,
			Kind:    domain.BonusRedemption,
			Comment: "redeemed at checkout",
		})
		if err != nil {
			s.logger.Printf("order %s: redeem bonus: %v", o.OrderNumber, err)
		}
	}
	if in.UserID != nil {
		if err := s.cartRepo.Clear(ctx, *in.UserID); err != nil {
			s.logger.Printf("order %s: clear cart: %v", o.OrderNumber, err)
		}
	}

	return s.repo.GetByID(ctx, o.ID)
}

func (s *Service) checkCreate(in *CreateInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return errors.New("customer name required")
	}
	if len(digits(in.CustomerPhone)) < 10 {
		return errors.New("customer phone required")
	}
	switch in.DeliveryMethod {
	case domain.DeliveryPickup:
	case domain.DeliveryCourier:
		if in.DeliveryAddress == nil || strings.TrimSpace(*in.DeliveryAddress) == "" {
			return errors.New("delivery address required for courier")
		}
	case domain.DeliveryPickupPoint:
		if in.PickupPointID == nil {
			return errors.New("pickup point required")
		}
	default:
		return fmt.Errorf("unknown delivery method %q", in.DeliveryMethod)
	}
	if in.PaymentMethod != domain.PaymentCard && in.PaymentMethod != domain.PaymentCash {
		return fmt.Errorf("unknown payment method %q", in.PaymentMethod)
	}
	if len(in.Items) == 0 {
		return errors.New("order has no items")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
	}
	if in.BonusToUse < 0 {
		return errors.New("bonus amount must not be negative")
	}
	return nil
}

func (s *Service) priceItems(ctx context.Context, in []ItemInput) ([]domain.OrderItem, float64, error) {
	ids := make([]int64, 0, len(in))
	for _, it := range in {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var items []domain.OrderItem
	subtotal := 0.0
	for _, it := range in {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, 0, domain.ErrNotFound
		}
		if !p.IsActive {
			return nil, 0, domain.ErrProductInactive
		}
		if it.Quantity > p.StockQuantity {
			return nil, 0, domain.ErrInsufficientStock
		}
		line := round2(p.Price * float64(it.Quantity))
		pid := p.ID
		items = append(items, domain.OrderItem{
			ProductID:  &pid,
			Quantity:   it.Quantity,
			UnitPrice:  p.Price,
			TotalPrice: line,
		})
		subtotal += line
	}
	return items, round2(subtotal), nil
}

func (s *Service) deliveryCost(ctx context.Context, in CreateInput, subtotal float64) (float64, error) {
	switch in.DeliveryMethod {
	case domain.DeliveryCourier:
		city := strings.TrimSpace(in.City)
		if city == "" {
			return 0, domain.ErrDeliveryNotAvailable
		}
		return s.delivery.CourierCost(ctx, city, subtotal)
	case domain.DeliveryPickupPoint:
		if _, err := s.delivery.Point(ctx, *in.PickupPointID); err != nil {
			return 0, err
		}
		return 0, nil
	default:
		return 0, nil
	}
}

// bonusRedemption caps the requested redemption by the loyalty
// settings' share of the discounted subtotal and by the user's balance.
func (s *Service) bonusRedemption(ctx context.Context, in CreateInput, payable float64) (float64, error) {
	if in.BonusToUse <= 0 || in.UserID == nil {
		return 0, nil
	}
	settings, err := s.loyaltyRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	if !settings.IsEnabled {
		return 0, nil
	}
	u, err := s.userRepo.GetByID(ctx, *in.UserID)
	if err != nil {
		return 0, err
	}
	bonus := in.BonusToUse
	if limit := round2(payable * settings.MaxRedeemShare); bonus > limit {
		bonus = limit
	}
	if bonus > u.BonusBalance {
		bonus = u.BonusBalance
	}
	if bonus < 0 {
		bonus = 0
	}
	return round2(bonus), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByNumber is the public order-tracking lookup.
func (s *Service) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return s.repo.GetByNumber(ctx, strings.TrimSpace(number))
}

func (s *Service) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Transition moves an order to a new status when the move is legal for
// its type. A transition into delivered accrues loyalty bonus for the
// order's owner.
func (s *Service) Transition(ctx context.Context, id int64, to domain.Status) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(o.OrderType, o.Status, to) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	if to == domain.StatusDelivered {
		s.accrueBonus(ctx, o)
	}
	return s.repo.GetByID(ctx, id)
}

// AllowedTransitions lists the legal next statuses, the same menu the
// admin detail screen renders as action buttons.
func (s *Service) AllowedTransitions(ctx context.Context, id int64) ([]domain.Status, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.AllowedTransitions(o.OrderType, o.Status), nil
}

func (s *Service) SetTracking(ctx context.Context, id int64, trackingNumber string) (*domain.Order, error) {
	if err := s.repo.SetTracking(ctx, id, strings.TrimSpace(trackingNumber)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SetPaid(ctx context.Context, id int64, paid bool) (*domain.Order, error) {
	if err := s.repo.SetPaid(ctx, id, paid); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) accrueBonus(ctx context.Context, o *domain.Order) {
	if o.UserID == nil {
		return
	}
	settings, err := s.loyaltyRepo.Get(ctx)
	if err != nil || !settings.IsEnabled || settings.AccrualPercent <= 0 {
		return
	}
	amount := round2(o.TotalPrice * settings.AccrualPercent / 100)
	if amount <= 0 {
		return
	}
	err = s.userRepo.AdjustBonus(ctx, domain.BonusTransaction{
		UserID:  *o.UserID,
		OrderID: &o.ID,
		Amount:  amount,
		Kind:    domain.BonusAccrual,
		Comment: fmt.Sprintf("order %s delivered", o.OrderNumber),
	})
	if err != nil {
		s.logger.Printf("order %s: accrue bonus: %v", o.OrderNumber, err)
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
