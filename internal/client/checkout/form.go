// Package checkout drives the storefront checkout form: delivery
// lookup as the user types a city, promo application, and the final
// total. Money math goes through decimals so repeated recomputation
// never drifts.
package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"printshop/internal/client"
	"printshop/internal/client/cart"
	"printshop/internal/domain"

	"github.com/shopspring/decimal"
)

type API interface {
	CalculateDelivery(ctx context.Context, city string, orderTotal float64) (*domain.DeliveryCalculation, error)
	ValidatePromo(ctx context.Context, code string, orderTotal float64) (*domain.PromoValidationResult, error)
	CreateOrder(ctx context.Context, draft client.OrderDraft) (*domain.Order, error)
}

type CartSource interface {
	Snapshot() cart.Summary
	Clear(ctx context.Context) error
}

// FieldErrors maps form field names to inline messages. A non-empty
// map means the form never reached the network.
type FieldErrors map[string]string

func (f FieldErrors) Error() string { return "form validation failed" }

const defaultSettleDelay = 400 * time.Millisecond

type Form struct {
	api  API
	cart CartSource

	mu sync.Mutex

	Name          string
	Phone         string
	Email         string
	Method        string
	Address       string
	City          string
	PickupPointID *int64
	Payment       string
	Notes         string
	BonusToUse    float64

	lookup         *domain.DeliveryCalculation
	lookupGen      uint64
	lookupApplied  uint64
	lookupInFlight bool

	promo      *domain.PromoValidationResult
	promoError string

	submitting bool

	settleDelay time.Duration
	debounce    *time.Timer
}

func NewForm(api API, cartSource CartSource) *Form {
	return &Form{
		api:         api,
		cart:        cartSource,
		Method:      domain.DeliveryPickup,
		Payment:     domain.PaymentCard,
		settleDelay: defaultSettleDelay,
	}
}

// SetMethod switches the delivery method. Moving away from the pickup
// point method drops the selected point; it must be re-chosen
// explicitly after switching back.
func (f *Form) SetMethod(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Method == method {
		return
	}
	f.Method = method
	if method != domain.DeliveryPickupPoint {
		f.PickupPointID = nil
	}
}

func (f *Form) SetPickupPoint(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PickupPointID = &id
}

// SetCity records the city and restarts the settle timer. The lookup
// fires only after the input has been quiet for the settle delay.
func (f *Form) SetCity(city string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.City = city
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.debounce = time.AfterFunc(f.settleDelay, func() {
		f.LookupDelivery(context.Background())
	})
}

// LookupDelivery fetches the courier options and pickup points for the
// current city. Responses are applied in issue order; a stale response
// arriving after a newer one is discarded.
func (f *Form) LookupDelivery(ctx context.Context) {
	f.mu.Lock()
	city := strings.TrimSpace(f.City)
	subtotal := f.cart.Snapshot().TotalPrice
	if city == "" || subtotal <= 0 {
		f.mu.Unlock()
		return
	}
	f.lookupGen++
	gen := f.lookupGen
	f.lookupInFlight = true
	f.mu.Unlock()

	calc, err := f.api.CalculateDelivery(ctx, city, subtotal)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupInFlight = false
	if gen <= f.lookupApplied {
		return
	}
	f.lookupApplied = gen
	if err != nil {
		f.lookup = nil
		return
	}
	f.lookup = calc
}

// LookupInFlight reports whether a delivery lookup is running, used to
// disable conflicting controls.
func (f *Form) LookupInFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookupInFlight
}

func (f *Form) DeliveryOptions() *domain.DeliveryCalculation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookup
}

// DeliveryCost derives the charge from the chosen method: pickup and
// pickup point are free, courier takes the first fetched option's cost
// or 0 when nothing is fetched yet.
func (f *Form) DeliveryCost() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deliveryCostLocked()
}

func (f *Form) deliveryCostLocked() float64 {
	if f.Method != domain.DeliveryCourier {
		return 0
	}
	if f.lookup == nil || len(f.lookup.CourierOptions) == 0 {
		return 0
	}
	return f.lookup.CourierOptions[0].Cost
}

// ApplyPromo validates a code against the current subtotal. A rejected
// code surfaces as an inline message and leaves the totals untouched.
func (f *Form) ApplyPromo(ctx context.Context, code string) {
	subtotal := f.cart.Snapshot().TotalPrice
	res, err := f.api.ValidatePromo(ctx, code, subtotal)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.promoError = promoMessage(err)
		return
	}
	f.promo = res
	f.promoError = ""
}

// RemovePromo clears both the applied discount and any prior error,
// restoring the pre-promo total.
func (f *Form) RemovePromo() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promo = nil
	f.promoError = ""
}

func (f *Form) PromoError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.promoError
}

func (f *Form) Discount() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discountLocked()
}

func (f *Form) discountLocked() float64 {
	if f.promo == nil {
		return 0
	}
	return f.promo.DiscountAmount
}

// Total is the payable amount: max(0, subtotal - discount + delivery).
func (f *Form) Total() float64 {
	subtotal := decimal.NewFromFloat(f.cart.Snapshot().TotalPrice)

	f.mu.Lock()
	discount := decimal.NewFromFloat(f.discountLocked())
	delivery := decimal.NewFromFloat(f.deliveryCostLocked())
	f.mu.Unlock()

	total := subtotal.Sub(discount).Add(delivery)
	if total.IsNegative() {
		return 0
	}
	return total.Round(2).InexactFloat64()
}

// Validate checks the form fields client side. A non-empty result
// means Submit will not issue a request.
func (f *Form) Validate() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Form) validateLocked() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "name is required"
	}
	if len(digits(f.Phone)) < 10 {
		errs["phone"] = "enter a valid phone number"
	}
	switch f.Method {
	case domain.DeliveryCourier:
		if strings.TrimSpace(f.Address) == "" {
			errs["address"] = "address is required for courier delivery"
		}
	case domain.DeliveryPickupPoint:
		if f.PickupPointID == nil {
			errs["pickupPoint"] = "choose a pickup point"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit validates, sends the order, and clears the cart on success.
// A second call while one is in flight fails immediately.
func (f *Form) Submit(ctx context.Context) (*domain.Order, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, &client.Error{Kind: client.KindValidation, Message: "submission already in progress"}
	}
	if errs := f.validateLocked(); errs != nil {
		f.mu.Unlock()
		return nil, errs
	}
	f.submitting = true
	draft := f.draftLocked()
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	snapshot := f.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, &client.Error{Kind: client.KindValidation, Message: "cart is empty"}
	}
	for _, it := range snapshot.Items {
		draft.Items = append(draft.Items, client.OrderDraftItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	o, err := f.api.CreateOrder(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := f.cart.Clear(ctx); err == nil {
		f.RemovePromo()
	}
	return o, nil
}

func (f *Form) draftLocked() client.OrderDraft {
	draft := client.OrderDraft{
		CustomerName:   strings.TrimSpace(f.Name),
		CustomerPhone:  strings.TrimSpace(f.Phone),
		DeliveryMethod: f.Method,
		City:           strings.TrimSpace(f.City),
		PaymentMethod:  f.Payment,
		BonusToUse:     f.BonusToUse,
		PickupPointID:  f.PickupPointID,
	}
	if email := strings.TrimSpace(f.Email); email != "" {
		draft.CustomerEmail = &email
	}
	if addr := strings.TrimSpace(f.Address); addr != "" && f.Method == domain.DeliveryCourier {
		draft.DeliveryAddress = &addr
	}
	if notes := strings.TrimSpace(f.Notes); notes != "" {
		draft.Notes = &notes
	}
	if f.promo != nil {
		code := f.promo.Code
		draft.PromoCode = &code
	}
	return draft
}

func promoMessage(err error) string {
	if e, ok := err.(*client.Error); ok && e.Message != "" {
		return e.Message
	}
	return "could not apply promo code"
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
