package service

import (
	"sync"

	"github.com/bakepos/server/internal/model"
)

// CartManager holds one in-memory cart per authenticated session. Carts
// never touch the database; stock is only checked at checkout.
type CartManager struct {
	mu    sync.RWMutex
	carts map[string][]model.CartLine
}

func NewCartManager() *CartManager {
	return &CartManager{carts: make(map[string][]model.CartLine)}
}

// Add puts one unit of the product in the session's cart. If the product
// is already present its quantity goes up by 1 and the price snapshot
// captured on first add is kept.
func (m *CartManager) Add(sessionID string, p model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[sessionID]
	for i := range lines {
		if lines[i].ProductID == p.ID {
			lines[i].Quantity++
			return
		}
	}
	m.carts[sessionID] = append(lines, model.CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		CategoryID:  p.CategoryID,
		Quantity:    1,
		UnitPrice:   p.Price,
	})
}

// SetQuantity replaces a line's quantity. A quantity below 1 removes the
// line. No stock check happens here; that is deferred to checkout.
func (m *CartManager) SetQuantity(sessionID, productID string, quantity int) {
	if quantity < 1 {
		m.Remove(sessionID, productID)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[sessionID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return
		}
	}
}

// Remove drops the line unconditionally.
func (m *CartManager) Remove(sessionID, productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[sessionID]
	for i := range lines {
		if lines[i].ProductID == productID {
			m.carts[sessionID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the cart in insertion order.
func (m *CartManager) Lines(sessionID string) []model.CartLine {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines := m.carts[sessionID]
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}

// Totals derives the cart totals. Grand total equals subtotal: no tax or
// discount is applied.
func (m *CartManager) Totals(sessionID string) model.CartTotals {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var t model.CartTotals
	for _, l := range m.carts[sessionID] {
		t.Subtotal += l.Total()
	}
	t.GrandTotal = t.Subtotal
	return t
}

// Clear discards the session's cart.
func (m *CartManager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}
