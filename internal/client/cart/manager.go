// Package cart keeps the storefront's cart state: a local guest cart
// before login and a mirror of the server cart after. Server responses
// carry a request generation so a slow response for an earlier action
// can never overwrite state set by a later one.
package cart

import (
	"context"
	"math"
	"sync"

	"printshop/internal/client/cartstore"
	"printshop/internal/domain"
)

type API interface {
	Cart(ctx context.Context) (*domain.Cart, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context) error
}

// Item is one cart line as the UI sees it, the same shape in guest and
// server mode.
type Item struct {
	ItemID    int64
	ProductID int64
	Name      string
	Price     float64
	Quantity  int
	Stock     int
	Image     string
}

type Summary struct {
	Items      []Item
	TotalItems int
	TotalPrice float64
}

type Manager struct {
	api   API
	store *cartstore.Store

	mu            sync.Mutex
	authenticated bool
	merged        bool
	gen           uint64
	applied       uint64
	lines         []cartstore.Line
	server        *domain.Cart
}

func New(api API, store *cartstore.Store) *Manager {
	return &Manager{
		api:   api,
		store: store,
		lines: store.Load(),
	}
}

// Snapshot returns the current cart contents and totals.
func (m *Manager) Snapshot() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.authenticated {
		return summaryFromServer(m.server)
	}
	return summaryFromLines(m.lines)
}

// AddProduct puts quantity units of a product into the cart. In guest
// mode the line quantity is clamped to [1, stock] and lines stay
// unique per product.
func (m *Manager) AddProduct(ctx context.Context, p domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	m.mu.Lock()
	if !m.authenticated {
		defer m.mu.Unlock()
		for i := range m.lines {
			if m.lines[i].ProductID == p.ID {
				m.lines[i].Quantity = clamp(m.lines[i].Quantity+quantity, 1, p.StockQuantity)
				m.lines[i].Price = p.Price
				m.lines[i].StockQuantity = p.StockQuantity
				return m.store.Save(m.lines)
			}
		}
		m.lines = append(m.lines, cartstore.Line{
			ProductID:     p.ID,
			Name:          p.Name,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			Quantity:      clamp(quantity, 1, p.StockQuantity),
			Image:         p.MainImage(),
		})
		return m.store.Save(m.lines)
	}
	gen := m.nextGenLocked()
	m.mu.Unlock()

	cart, err := m.api.AddCartItem(ctx, p.ID, quantity)
	if err != nil {
		return err
	}
	m.applyServer(gen, cart)
	return nil
}

// UpdateQuantity sets a line's quantity by product id.
func (m *Manager) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	m.mu.Lock()
	if !m.authenticated {
		defer m.mu.Unlock()
		for i := range m.lines {
			if m.lines[i].ProductID == productID {
				m.lines[i].Quantity = clamp(quantity, 1, m.lines[i].StockQuantity)
				return m.store.Save(m.lines)
			}
		}
		return nil
	}
	itemID, ok := m.serverItemIDLocked(productID)
	gen := m.nextGenLocked()
	m.mu.Unlock()
	if !ok {
		return nil
	}

	cart, err := m.api.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		return err
	}
	m.applyServer(gen, cart)
	return nil
}

func (m *Manager) Remove(ctx context.Context, productID int64) error {
	m.mu.Lock()
	if !m.authenticated {
		defer m.mu.Unlock()
		kept := m.lines[:0]
		for _, l := range m.lines {
			if l.ProductID != productID {
				kept = append(kept, l)
			}
		}
		m.lines = kept
		return m.store.Save(m.lines)
	}
	itemID, ok := m.serverItemIDLocked(productID)
	gen := m.nextGenLocked()
	m.mu.Unlock()
	if !ok {
		return nil
	}

	cart, err := m.api.RemoveCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	m.applyServer(gen, cart)
	return nil
}

func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	if !m.authenticated {
		defer m.mu.Unlock()
		m.lines = nil
		return m.store.Clear()
	}
	gen := m.nextGenLocked()
	m.mu.Unlock()

	if err := m.api.ClearCart(ctx); err != nil {
		return err
	}
	m.applyServer(gen, &domain.Cart{Items: []domain.CartItem{}})
	return nil
}

// Refresh reloads the server cart. No-op for guests.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if !m.authenticated {
		m.mu.Unlock()
		return nil
	}
	gen := m.nextGenLocked()
	m.mu.Unlock()

	cart, err := m.api.Cart(ctx)
	if err != nil {
		return err
	}
	m.applyServer(gen, cart)
	return nil
}

// OnLogin switches to server mode and merges the guest cart exactly
// once per authenticated session. Only guest lines whose product is
// absent from the server cart are pushed; for products the server
// already holds, the server quantity stays authoritative. Each push is
// best effort: a line the server rejects (inactive product, no stock)
// is skipped, the rest still land. The guest store is purged
// afterwards either way, then the server cart is reloaded as the
// single source of truth.
func (m *Manager) OnLogin(ctx context.Context) error {
	m.mu.Lock()
	m.authenticated = true
	if m.merged {
		m.mu.Unlock()
		return m.Refresh(ctx)
	}
	m.merged = true
	lines := m.lines
	m.lines = nil
	m.mu.Unlock()

	present := map[int64]bool{}
	if server, err := m.api.Cart(ctx); err == nil {
		for _, it := range server.Items {
			present[it.ProductID] = true
		}
	}
	for _, l := range lines {
		if present[l.ProductID] {
			continue
		}
		if _, err := m.api.AddCartItem(ctx, l.ProductID, l.Quantity); err != nil {
			continue
		}
	}
	if err := m.store.Clear(); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// OnLogout drops the server mirror and returns to an empty guest cart.
// The merge flag resets with the session: a later login merges
// whatever the guest adds in between.
func (m *Manager) OnLogout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = false
	m.merged = false
	m.server = nil
	m.lines = m.store.Load()
}

func (m *Manager) nextGenLocked() uint64 {
	m.gen++
	return m.gen
}

// applyServer installs a server response unless a newer one already
// landed.
func (m *Manager) applyServer(gen uint64, cart *domain.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen <= m.applied {
		return
	}
	m.applied = gen
	m.server = cart
}

func (m *Manager) serverItemIDLocked(productID int64) (int64, bool) {
	if m.server == nil {
		return 0, false
	}
	for _, it := range m.server.Items {
		if it.ProductID == productID {
			return it.ID, true
		}
	}
	return 0, false
}

func summaryFromLines(lines []cartstore.Line) Summary {
	s := Summary{Items: make([]Item, 0, len(lines))}
	for _, l := range lines {
		s.Items = append(s.Items, Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Stock:     l.StockQuantity,
			Image:     l.Image,
		})
		s.TotalItems += l.Quantity
		s.TotalPrice += l.Price * float64(l.Quantity)
	}
	s.TotalPrice = math.Round(s.TotalPrice*100) / 100
	return s
}

func summaryFromServer(cart *domain.Cart) Summary {
	if cart == nil {
		return Summary{Items: []Item{}}
	}
	s := Summary{
		Items:      make([]Item, 0, len(cart.Items)),
		TotalItems: cart.TotalItems,
		TotalPrice: cart.TotalPrice,
	}
	for _, it := range cart.Items {
		item := Item{
			ItemID:    it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
		if it.Product != nil {
			item.Name = it.Product.Name
			item.Price = it.Product.Price
			item.Stock = it.Product.StockQuantity
			item.Image = it.Product.MainImage()
		}
		s.Items = append(s.Items, item)
	}
	return s
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
