package order

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"printshop/internal/domain"
)

type stubOrderRepo struct {
	created      *domain.Order
	stored       *domain.Order
	statusSet    []domain.Status
	lastTracking string
}

func (s *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	o.ID = 42
	s.created = o
	s.stored = o
	return nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	if s.stored == nil {
		return nil, domain.ErrNotFound
	}
	return s.stored, nil
}

func (s *stubOrderRepo) GetByNumber(_ context.Context, _ string) (*domain.Order, error) {
	return s.stored, nil
}

func (s *stubOrderRepo) List(_ context.Context, _ domain.OrderFilter) ([]domain.Order, int64, error) {
	return nil, 0, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ int64) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ int64, status domain.Status) error {
	s.statusSet = append(s.statusSet, status)
	if s.stored != nil {
		s.stored.Status = status
	}
	return nil
}

func (s *stubOrderRepo) SetTracking(_ context.Context, _ int64, tn string) error {
	s.lastTracking = tn
	return nil
}

func (s *stubOrderRepo) SetPaid(_ context.Context, _ int64, _ bool) error { return nil }

func (s *stubOrderRepo) NextOrderNumber(_ context.Context) (string, error) {
	return "ORD-20250615-1001", nil
}

type stubProductRepo struct {
	products       []domain.Product
	decremented    map[int64]int
	decrementError error
}

func (s *stubProductRepo) GetByIDs(_ context.Context, _ []int64) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProductRepo) DecrementStock(_ context.Context, id int64, qty int) error {
	if s.decremented == nil {
		s.decremented = map[int64]int{}
	}
	s.decremented[id] += qty
	return s.decrementError
}

type stubCartRepo struct {
	cleared []int64
}

func (s *stubCartRepo) Clear(_ context.Context, userID int64) error {
	s.cleared = append(s.cleared, userID)
	return nil
}

type stubUserRepo struct {
	user      *domain.User
	adjusts   []domain.BonusTransaction
	adjustErr error
}

func (s *stubUserRepo) GetByID(_ context.Context, _ int64) (*domain.User, error) {
	if s.user == nil {
		return nil, domain.ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) AdjustBonus(_ context.Context, tx domain.BonusTransaction) error {
	s.adjusts = append(s.adjusts, tx)
	return s.adjustErr
}

type stubLoyaltyRepo struct {
	settings *domain.LoyaltySettings
}

func (s *stubLoyaltyRepo) Get(_ context.Context) (*domain.LoyaltySettings, error) {
	if s.settings == nil {
		return &domain.LoyaltySettings{IsEnabled: false}, nil
	}
	return s.settings, nil
}

type stubPromoService struct {
	result    *domain.PromoValidationResult
	err       error
	usedCodes []string
}

func (s *stubPromoService) Validate(_ context.Context, _ string, _ float64) (*domain.PromoValidationResult, error) {
	return s.result, s.err
}

func (s *stubPromoService) MarkUsedByCode(_ context.Context, code string) error {
	s.usedCodes = append(s.usedCodes, code)
	return nil
}

type stubDeliveryService struct {
	cost    float64
	costErr error
	point   *domain.PickupPoint
}

func (s *stubDeliveryService) CourierCost(_ context.Context, _ string, _ float64) (float64, error) {
	return s.cost, s.costErr
}

func (s *stubDeliveryService) Point(_ context.Context, _ int64) (*domain.PickupPoint, error) {
	if s.point == nil {
		return nil, domain.ErrNotFound
	}
	return s.point, nil
}

type testDeps struct {
	orders   *stubOrderRepo
	products *stubProductRepo
	carts    *stubCartRepo
	users    *stubUserRepo
	loyalty  *stubLoyaltyRepo
	promos   *stubPromoService
	delivery *stubDeliveryService
}

func newTestService(d *testDeps) *Service {
	logger := log.New(io.Discard, "", 0)
	return New(d.orders, d.products, d.carts, d.users, d.loyalty, d.promos, d.delivery, logger)
}

func defaultDeps() *testDeps {
	return &testDeps{
		orders: &stubOrderRepo{},
		products: &stubProductRepo{products: []domain.Product{
			{ID: 1, Name: "Cards", Price: 750, StockQuantity: 10, IsActive: true},
		}},
		carts:    &stubCartRepo{},
		users:    &stubUserRepo{},
		loyalty:  &stubLoyaltyRepo{},
		promos:   &stubPromoService{},
		delivery: &stubDeliveryService{},
	}
}

func pickupCashInput() CreateInput {
	return CreateInput{
		CustomerName:   "Иван",
		CustomerPhone:  "+79001234567",
		DeliveryMethod: domain.DeliveryPickup,
		PaymentMethod:  domain.PaymentCash,
		Items:          []ItemInput{{ProductID: 1, Quantity: 2}},
	}
}

func TestCreate_PickupCash(t *testing.T) {
	deps := defaultDeps()
	svc := newTestService(deps)
	userID := int64(7)
	in := pickupCashInput()
	in.UserID = &userID

	o, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Subtotal != 1500 {
		t.Fatalf("subtotal = %v, want 1500", o.Subtotal)
	}
	if o.DeliveryCost != 0 || o.DiscountAmount != 0 {
		t.Fatalf("delivery = %v discount = %v, want 0/0", o.DeliveryCost, o.DiscountAmount)
	}
	if o.TotalPrice != 1500 {
		t.Fatalf("total = %v, want 1500", o.TotalPrice)
	}
	if o.Status != domain.StatusNew {
		t.Fatalf("status = %s, want new", o.Status)
	}
	if deps.products.decremented[1] != 2 {
		t.Fatalf("decremented = %v, want 2 units of product 1", deps.products.decremented)
	}
	if len(deps.carts.cleared) != 1 || deps.carts.cleared[0] != 7 {
		t.Fatalf("cart cleared for %v, want [7]", deps.carts.cleared)
	}
}

func TestCreate_PromoAndCourier(t *testing.T) {
	deps := defaultDeps()
	deps.promos.result = &domain.PromoValidationResult{
		Valid:          true,
		Code:           "SALE10",
		DiscountType:   domain.DiscountPercent,
		DiscountValue:  10,
		DiscountAmount: 150,
	}
	deps.delivery.cost = 350
	svc := newTestService(deps)

	code := "SALE10"
	addr := "Lenina 1"
	in := pickupCashInput()
	in.DeliveryMethod = domain.DeliveryCourier
	in.DeliveryAddress = &addr
	in.City = "Moscow"
	in.PromoCode = &code

	o, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.TotalPrice != 1700 {
		t.Fatalf("total = %v, want 1700 (1500 - 150 + 350)", o.TotalPrice)
	}
	if len(deps.promos.usedCodes) != 1 || deps.promos.usedCodes[0] != "SALE10" {
		t.Fatalf("used codes = %v, want [SALE10]", deps.promos.usedCodes)
	}
}

func TestCreate_TotalNeverNegative(t *testing.T) {
	deps := defaultDeps()
	deps.promos.result = &domain.PromoValidationResult{
		Valid:          true,
		Code:           "MEGA",
		DiscountAmount: 2000,
	}
	svc := newTestService(deps)

	code := "MEGA"
	in := pickupCashInput()
	in.PromoCode = &code

	o, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.TotalPrice != 0 {
		t.Fatalf("total = %v, want 0", o.TotalPrice)
	}
}

func TestCreate_BonusCappedByShareAndBalance(t *testing.T) {
	deps := defaultDeps()
	deps.loyalty.settings = &domain.LoyaltySettings{
		IsEnabled:      true,
		MaxRedeemShare: 0.3,
		AccrualPercent: 5,
	}
	deps.users.user = &domain.User{ID: 7, BonusBalance: 10000}
	svc := newTestService(deps)

	userID := int64(7)
	in := pickupCashInput()
	in.UserID = &userID
	in.BonusToUse = 1000

	o, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// 30% of 1500 = 450
	if o.BonusDiscount != 450 {
		t.Fatalf("bonus discount = %v, want 450", o.BonusDiscount)
	}
	if o.TotalPrice != 1050 {
		t.Fatalf("total = %v, want 1050", o.TotalPrice)
	}
	if len(deps.users.adjusts) != 1 || deps.users.adjusts[0].Amount != -450 {
		t.Fatalf("adjusts = %+v, want one redemption of -450", deps.users.adjusts)
	}
	if deps.users.adjusts[0].Kind != domain.BonusRedemption {
		t.Fatalf("kind = %s, want redemption", deps.users.adjusts[0].Kind)
	}
}

func TestCreate_RedemptionFailureDoesNotFailCheckout(t *testing.T) {
	deps := defaultDeps()
	deps.loyalty.settings = &domain.LoyaltySettings{
		IsEnabled:      true,
		MaxRedeemShare: 0.3,
	}
	deps.users.user = &domain.User{ID: 7, BonusBalance: 500}
	deps.users.adjustErr = domain.ErrInsufficientBonus
	svc := newTestService(deps)

	userID := int64(7)
	in := pickupCashInput()
	in.UserID = &userID
	in.BonusToUse = 200

	o, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o == nil || o.ID != 42 {
		t.Fatalf("order = %+v, want persisted order back", o)
	}
}

func TestCreate_InsufficientStock(t *testing.T) {
	deps := defaultDeps()
	deps.products.products[0].StockQuantity = 1
	svc := newTestService(deps)

	_, err := svc.Create(context.Background(), pickupCashInput())
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if deps.orders.created != nil {
		t.Fatal("order must not be created")
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := newTestService(defaultDeps())

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty name", func(in *CreateInput) { in.CustomerName = " " }},
		{"short phone", func(in *CreateInput) { in.CustomerPhone = "123" }},
		{"courier without address", func(in *CreateInput) {
			in.DeliveryMethod = domain.DeliveryCourier
		}},
		{"pickup point without id", func(in *CreateInput) {
			in.DeliveryMethod = domain.DeliveryPickupPoint
		}},
		{"unknown payment", func(in *CreateInput) { in.PaymentMethod = "crypto" }},
		{"no items", func(in *CreateInput) { in.Items = nil }},
		{"negative bonus", func(in *CreateInput) { in.BonusToUse = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := pickupCashInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTransition_Legality(t *testing.T) {
	deps := defaultDeps()
	deps.orders.stored = &domain.Order{
		ID:        42,
		OrderType: domain.OrderTypeRegular,
		Status:    domain.StatusNew,
	}
	svc := newTestService(deps)

	if _, err := svc.Transition(context.Background(), 42, domain.StatusReady); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	o, err := svc.Transition(context.Background(), 42, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if o.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", o.Status)
	}
}

func TestTransition_DeliveredAccruesBonus(t *testing.T) {
	userID := int64(7)
	deps := defaultDeps()
	deps.orders.stored = &domain.Order{
		ID:         42,
		UserID:     &userID,
		OrderType:  domain.OrderTypeRegular,
		Status:     domain.StatusReady,
		TotalPrice: 2000,
	}
	deps.loyalty.settings = &domain.LoyaltySettings{IsEnabled: true, AccrualPercent: 5}
	svc := newTestService(deps)

	if _, err := svc.Transition(context.Background(), 42, domain.StatusDelivered); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if len(deps.users.adjusts) != 1 {
		t.Fatalf("adjusts = %d, want 1", len(deps.users.adjusts))
	}
	if deps.users.adjusts[0].Amount != 100 || deps.users.adjusts[0].Kind != domain.BonusAccrual {
		t.Fatalf("accrual = %+v, want +100 accrual", deps.users.adjusts[0])
	}
}

func TestAllowedTransitions(t *testing.T) {
	deps := defaultDeps()
	deps.orders.stored = &domain.Order{
		ID:        42,
		OrderType: domain.OrderTypeCustom,
		Status:    domain.StatusNew,
	}
	svc := newTestService(deps)

	moves, err := svc.AllowedTransitions(context.Background(), 42)
	if err != nil {
		t.Fatalf("allowed transitions: %v", err)
	}
	if len(moves) != 1 || moves[0] != domain.StatusCancelled {
		t.Fatalf("moves = %v, want [cancelled]", moves)
	}
}
