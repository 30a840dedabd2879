package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/client/cartstore"
	"printshop/internal/domain"
)

type fakeAPI struct {
	cart     domain.Cart
	addCalls []int64
	addErrOn map[int64]error
	nextID   int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		cart:     domain.BuildCart(nil),
		addErrOn: map[int64]error{},
	}
}

func (f *fakeAPI) seed(items ...domain.CartItem) {
	f.cart = domain.BuildCart(items)
	for _, it := range items {
		if it.ID > f.nextID {
			f.nextID = it.ID
		}
	}
}

func (f *fakeAPI) Cart(_ context.Context) (*domain.Cart, error) {
	c := f.cart
	return &c, nil
}

func (f *fakeAPI) AddCartItem(_ context.Context, productID int64, quantity int) (*domain.Cart, error) {
	f.addCalls = append(f.addCalls, productID)
	if err := f.addErrOn[productID]; err != nil {
		return nil, err
	}
	f.nextID++
	items := append(f.cart.Items, domain.CartItem{
		ID:        f.nextID,
		ProductID: productID,
		Quantity:  quantity,
		Product:   &domain.Product{ID: productID, Price: 100, StockQuantity: 50},
	})
	f.cart = domain.BuildCart(items)
	c := f.cart
	return &c, nil
}

func (f *fakeAPI) UpdateCartItem(_ context.Context, itemID int64, quantity int) (*domain.Cart, error) {
	for i := range f.cart.Items {
		if f.cart.Items[i].ID == itemID {
			f.cart.Items[i].Quantity = quantity
		}
	}
	f.cart = domain.BuildCart(f.cart.Items)
	c := f.cart
	return &c, nil
}

func (f *fakeAPI) RemoveCartItem(_ context.Context, itemID int64) (*domain.Cart, error) {
	kept := f.cart.Items[:0]
	for _, it := range f.cart.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	f.cart = domain.BuildCart(kept)
	c := f.cart
	return &c, nil
}

func (f *fakeAPI) ClearCart(_ context.Context) error {
	f.cart = domain.BuildCart(nil)
	return nil
}

func product(id int64, price float64, stock int) domain.Product {
	return domain.Product{ID: id, Name: "Product", Price: price, StockQuantity: stock}
}

func newGuestManager(t *testing.T) (*Manager, *fakeAPI, *cartstore.Store) {
	t.Helper()
	store := cartstore.New(t.TempDir())
	api := newFakeAPI()
	return New(api, store), api, store
}

func TestGuestAddClampsToStock(t *testing.T) {
	m, _, _ := newGuestManager(t)

	require.NoError(t, m.AddProduct(context.Background(), product(1, 200, 5), 3))
	require.NoError(t, m.AddProduct(context.Background(), product(1, 200, 5), 10))

	s := m.Snapshot()
	require.Len(t, s.Items, 1, "lines must stay unique per product")
	assert.Equal(t, 5, s.Items[0].Quantity, "quantity clamped to stock")
	assert.Equal(t, float64(1000), s.TotalPrice)
}

func TestGuestQuantityNeverBelowOne(t *testing.T) {
	m, _, _ := newGuestManager(t)

	require.NoError(t, m.AddProduct(context.Background(), product(1, 200, 5), 2))
	require.NoError(t, m.UpdateQuantity(context.Background(), 1, -7))

	s := m.Snapshot()
	assert.Equal(t, 1, s.Items[0].Quantity)
}

func TestGuestCartSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	api := newFakeAPI()

	m := New(api, cartstore.New(dir))
	require.NoError(t, m.AddProduct(context.Background(), product(1, 200, 5), 2))

	reopened := New(api, cartstore.New(dir))
	s := reopened.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
}

func TestOnLoginMergesGuestLinesBestEffort(t *testing.T) {
	m, api, store := newGuestManager(t)

	require.NoError(t, m.AddProduct(context.Background(), product(1, 200, 5), 2))
	require.NoError(t, m.AddProduct(context.Background(), product(2, 300, 5), 1))
	require.NoError(t, m.AddProduct(context.Background(), product(3, 400, 5), 1))
	api.addErrOn[2] = errors.New("insufficient stock")

	require.NoError(t, m.OnLogin(context.Background()))

	assert.ElementsMatch(t, []int64{1, 2, 3}, api.addCalls, "every guest line is attempted")
	s := m.Snapshot()
	require.Len(t, s.Items, 2, "rejected line is skipped, the rest land")
	assert.Nil(t, store.Load(), "guest store purged after merge")
}

func TestOnLoginSkipsServerPresentProducts(t *testing.T) {
	m, api, _ := newGuestManager(t)
	api.seed(domain.CartItem{
		ID:        1,
		ProductID: 1,
		Quantity:  3,
		Product:   &domain.Product{ID: 1, Price: 100, StockQuantity: 50},
	})

	require.NoError(t, m.AddProduct(context.Background(), product(1, 100, 50), 2))
	require.NoError(t, m.AddProduct(context.Background(), product(2, 300, 50), 1))

	require.NoError(t, m.OnLogin(context.Background()))

	assert.Equal(t, []int64{2}, api.addCalls, "server-present product must not be re-added")
	s := m.Snapshot()
	require.Len(t, s.Items, 2)
	for _, it := range s.Items {
		if it.ProductID == 1 {
			assert.Equal(t, 3, it.Quantity, "server quantity stays authoritative")
		}
	}
}

func TestMergeOncePerSession(t *testing.T) {
	m, api, _ := newGuestManager(t)

	require.NoError(t, m.AddProduct(context.Background(), product(1, 200, 5), 2))
	require.NoError(t, m.OnLogin(context.Background()))
	calls := len(api.addCalls)

	require.NoError(t, m.OnLogin(context.Background()))
	assert.Equal(t, calls, len(api.addCalls), "repeat login in the same session must not re-merge")
}

func TestLogoutStartsFreshMergeSession(t *testing.T) {
	m, api, _ := newGuestManager(t)

	require.NoError(t, m.AddProduct(context.Background(), product(1, 200, 5), 2))
	require.NoError(t, m.OnLogin(context.Background()))

	m.OnLogout()
	require.NoError(t, m.AddProduct(context.Background(), product(2, 300, 5), 1))
	require.NoError(t, m.OnLogin(context.Background()))

	assert.Contains(t, api.addCalls, int64(2), "line added while logged out merges on the next login")
	s := m.Snapshot()
	require.Len(t, s.Items, 2)
}

func TestStaleServerResponseDiscarded(t *testing.T) {
	m, _, _ := newGuestManager(t)
	require.NoError(t, m.OnLogin(context.Background()))

	older := m.nextGenLocked()
	newer := m.nextGenLocked()

	m.applyServer(newer, &domain.Cart{TotalItems: 3})
	m.applyServer(older, &domain.Cart{TotalItems: 99})

	s := m.Snapshot()
	assert.Equal(t, 3, s.TotalItems, "older response must not overwrite newer state")
}

func TestServerModeRoundTrip(t *testing.T) {
	m, _, _ := newGuestManager(t)
	require.NoError(t, m.OnLogin(context.Background()))

	require.NoError(t, m.AddProduct(context.Background(), product(1, 100, 50), 2))
	s := m.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.TotalItems)

	require.NoError(t, m.UpdateQuantity(context.Background(), 1, 4))
	assert.Equal(t, 4, m.Snapshot().TotalItems)

	require.NoError(t, m.Remove(context.Background(), 1))
	assert.Empty(t, m.Snapshot().Items)
}
