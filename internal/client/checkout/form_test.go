package checkout

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/client"
	"printshop/internal/client/cart"
	"printshop/internal/domain"
)

type fakeCart struct {
	summary cart.Summary
	cleared bool
}

func (f *fakeCart) Snapshot() cart.Summary        { return f.summary }
func (f *fakeCart) Clear(_ context.Context) error { f.cleared = true; return nil }

type fakeAPI struct {
	calcFn  func(city string, orderTotal float64) (*domain.DeliveryCalculation, error)
	promoFn func(code string, orderTotal float64) (*domain.PromoValidationResult, error)

	orderCalls atomic.Int32
	lastDraft  client.OrderDraft
	orderErr   error
}

func (f *fakeAPI) CalculateDelivery(_ context.Context, city string, orderTotal float64) (*domain.DeliveryCalculation, error) {
	if f.calcFn == nil {
		return &domain.DeliveryCalculation{}, nil
	}
	return f.calcFn(city, orderTotal)
}

func (f *fakeAPI) ValidatePromo(_ context.Context, code string, orderTotal float64) (*domain.PromoValidationResult, error) {
	if f.promoFn == nil {
		return &domain.PromoValidationResult{Valid: true, Code: code}, nil
	}
	return f.promoFn(code, orderTotal)
}

func (f *fakeAPI) CreateOrder(_ context.Context, draft client.OrderDraft) (*domain.Order, error) {
	f.orderCalls.Add(1)
	f.lastDraft = draft
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &domain.Order{OrderNumber: "ORD-20250615-1001"}, nil
}

func cartWith(total float64) *fakeCart {
	return &fakeCart{summary: cart.Summary{
		Items:      []cart.Item{{ProductID: 1, Quantity: 2}},
		TotalItems: 2,
		TotalPrice: total,
	}}
}

func validForm(api *fakeAPI, c *fakeCart) *Form {
	f := NewForm(api, c)
	f.Name = "Иван"
	f.Phone = "+7 (900) 123-45-67"
	return f
}

func TestTotalNeverNegative(t *testing.T) {
	api := &fakeAPI{promoFn: func(code string, _ float64) (*domain.PromoValidationResult, error) {
		return &domain.PromoValidationResult{Valid: true, Code: code, DiscountAmount: 1200}, nil
	}}
	f := validForm(api, cartWith(1000))

	f.ApplyPromo(context.Background(), "MEGA")
	assert.Equal(t, float64(0), f.Total())
}

func TestPromoRejectedLeavesTotalUntouched(t *testing.T) {
	api := &fakeAPI{promoFn: func(string, float64) (*domain.PromoValidationResult, error) {
		return nil, &client.Error{Kind: client.KindBusiness, Code: "promo_expired", Message: "promo code has expired"}
	}}
	f := validForm(api, cartWith(1000))

	f.ApplyPromo(context.Background(), "OLD10")
	assert.Equal(t, "promo code has expired", f.PromoError())
	assert.Equal(t, float64(0), f.Discount())
	assert.Equal(t, float64(1000), f.Total())
}

func TestRemovePromoRestoresTotal(t *testing.T) {
	api := &fakeAPI{promoFn: func(code string, _ float64) (*domain.PromoValidationResult, error) {
		return &domain.PromoValidationResult{Valid: true, Code: code, DiscountAmount: 150}, nil
	}}
	f := validForm(api, cartWith(1500))

	f.ApplyPromo(context.Background(), "SALE10")
	require.Equal(t, float64(1350), f.Total())

	f.RemovePromo()
	assert.Equal(t, float64(1500), f.Total())
	assert.Empty(t, f.PromoError())
}

func TestSwitchingMethodDropsPickupPoint(t *testing.T) {
	f := validForm(&fakeAPI{}, cartWith(1000))

	f.SetMethod(domain.DeliveryPickupPoint)
	f.SetPickupPoint(3)
	require.Nil(t, f.Validate())

	f.SetMethod(domain.DeliveryCourier)
	f.SetMethod(domain.DeliveryPickupPoint)
	errs := f.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "pickupPoint", "point must be re-chosen after switching methods")
}

func TestSubmitInvalidFormSkipsNetwork(t *testing.T) {
	api := &fakeAPI{}
	f := NewForm(api, cartWith(1000))

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "phone")
	assert.Equal(t, int32(0), api.orderCalls.Load(), "invalid form must not reach the network")
}

func TestSubmitClearsCartAndPromo(t *testing.T) {
	api := &fakeAPI{promoFn: func(code string, _ float64) (*domain.PromoValidationResult, error) {
		return &domain.PromoValidationResult{Valid: true, Code: code, DiscountAmount: 100}, nil
	}}
	c := cartWith(1000)
	f := validForm(api, c)
	f.ApplyPromo(context.Background(), "SALE10")

	o, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-20250615-1001", o.OrderNumber)
	assert.True(t, c.cleared)
	assert.Equal(t, float64(0), f.Discount())
	require.NotNil(t, api.lastDraft.PromoCode)
	assert.Equal(t, "SALE10", *api.lastDraft.PromoCode)
	require.Len(t, api.lastDraft.Items, 1)
	assert.Equal(t, 2, api.lastDraft.Items[0].Quantity)
}

func TestSubmitEmptyCart(t *testing.T) {
	api := &fakeAPI{}
	f := validForm(api, &fakeCart{})

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, client.KindValidation, client.KindOf(err))
	assert.Equal(t, int32(0), api.orderCalls.Load())
}

func TestStaleDeliveryLookupDiscarded(t *testing.T) {
	first := &domain.DeliveryCalculation{CourierOptions: []domain.DeliveryOption{{Name: "stale", Cost: 500}}}
	second := &domain.DeliveryCalculation{CourierOptions: []domain.DeliveryOption{{Name: "fresh", Cost: 350}}}

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	api := &fakeAPI{calcFn: func(string, float64) (*domain.DeliveryCalculation, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return first, nil
		}
		return second, nil
	}}
	f := validForm(api, cartWith(1000))
	f.City = "Moscow"
	f.SetMethod(domain.DeliveryCourier)
	f.Address = "Lenina 1"

	done := make(chan struct{})
	go func() {
		f.LookupDelivery(context.Background())
		close(done)
	}()
	<-entered

	f.LookupDelivery(context.Background())
	require.Equal(t, float64(350), f.DeliveryCost())

	close(release)
	<-done

	assert.Equal(t, float64(350), f.DeliveryCost(), "stale response must not overwrite the newer one")
	assert.False(t, f.LookupInFlight())
}

func TestSetCityDebounces(t *testing.T) {
	var calls atomic.Int32
	api := &fakeAPI{calcFn: func(string, float64) (*domain.DeliveryCalculation, error) {
		calls.Add(1)
		return &domain.DeliveryCalculation{}, nil
	}}
	f := validForm(api, cartWith(1000))
	f.settleDelay = 10 * time.Millisecond

	f.SetCity("M")
	f.SetCity("Mo")
	f.SetCity("Moscow")

	assert.Eventually(t, func() bool { return calls.Load() == 1 },
		time.Second, 5*time.Millisecond, "only the settled input triggers a lookup")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}
