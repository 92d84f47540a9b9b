package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakepos/server/internal/model"
)

func setupCheckout(t *testing.T) (*fakeStore, *CartManager, *CheckoutService) {
	t.Helper()
	store := newFakeStore()
	store.products["p1"] = model.Product{ID: "p1", Name: "Croissant", CategoryID: "c1", Price: 50, Stock: 10}
	store.products["p2"] = model.Product{ID: "p2", Name: "Pandesal", CategoryID: "c2", Price: 100, Stock: 5}
	store.categories["c1"] = model.Category{ID: "c1", Name: "Pastry"}
	store.categories["c2"] = model.Category{ID: "c2", Name: "Bread"}

	carts := NewCartManager()
	return store, carts, NewCheckoutService(store, carts)
}

func TestCheckout_Success(t *testing.T) {
	store, carts, svc := setupCheckout(t)
	ctx := context.Background()

	carts.Add("s1", store.products["p1"])
	carts.Add("s1", store.products["p1"])
	carts.Add("s1", store.products["p2"])

	order, err := svc.Checkout(ctx, "s1", 250, "Cash")
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 200.0, order.GrandTotal)
	assert.Equal(t, 250.0, order.PaymentAmount)
	assert.Equal(t, 50.0, order.Change)
	assert.Equal(t, "Cash", order.PaymentMethod)
	require.Len(t, order.CartItems, 2)
	assert.Equal(t, "Croissant", order.CartItems[0].ProductName)
	assert.Equal(t, 100.0, order.CartItems[0].Total)
	assert.Equal(t, "Pastry", order.CartItems[0].Category)
	assert.Equal(t, "Bread", order.CartItems[1].Category)

	// Subtotal equals the sum of line totals.
	var lineSum float64
	for _, item := range order.CartItems {
		lineSum += item.Total
	}
	assert.Equal(t, order.Subtotal, lineSum)

	// Stock decremented, order persisted, cart cleared.
	assert.Equal(t, 8, store.products["p1"].Stock)
	assert.Equal(t, 4, store.products["p2"].Stock)
	assert.Len(t, store.orders, 1)
	assert.Empty(t, carts.Lines("s1"))
}

func TestCheckout_EmptyCart(t *testing.T) {
	_, _, svc := setupCheckout(t)

	_, err := svc.Checkout(context.Background(), "s1", 100, "Cash")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_InsufficientPayment(t *testing.T) {
	store, carts, svc := setupCheckout(t)

	carts.Add("s1", store.products["p1"])

	_, err := svc.Checkout(context.Background(), "s1", 49.99, "Cash")
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	// Nothing written, cart intact.
	assert.Empty(t, store.orders)
	assert.Equal(t, 10, store.products["p1"].Stock)
	assert.Len(t, carts.Lines("s1"), 1)
}

func TestCheckout_ExactPayment(t *testing.T) {
	store, carts, svc := setupCheckout(t)
	carts.Add("s1", store.products["p1"])

	order, err := svc.Checkout(context.Background(), "s1", 50, "GCash")
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.Change)
}

func TestCheckout_StockShortfallListsAllOffenders(t *testing.T) {
	store, carts, svc := setupCheckout(t)

	carts.Add("s1", store.products["p1"])
	carts.SetQuantity("s1", "p1", 11) // stock is 10
	carts.Add("s1", store.products["p2"])
	carts.SetQuantity("s1", "p2", 6) // stock is 5

	_, err := svc.Checkout(context.Background(), "s1", 100000, "Cash")

	var shortfall *StockShortfallError
	require.True(t, errors.As(err, &shortfall))
	assert.Equal(t, []string{"Croissant", "Pandesal"}, shortfall.Items)

	// No order written, no stock touched, cart preserved for correction.
	assert.Empty(t, store.orders)
	assert.Equal(t, 10, store.products["p1"].Stock)
	assert.Equal(t, 5, store.products["p2"].Stock)
	assert.Len(t, carts.Lines("s1"), 2)
}

func TestCheckout_MissingProductShortCircuits(t *testing.T) {
	store, carts, svc := setupCheckout(t)

	carts.Add("s1", store.products["p1"])
	carts.Add("s1", store.products["p2"])
	carts.SetQuantity("s1", "p2", 6) // would also be a shortfall
	delete(store.products, "p1")

	_, err := svc.Checkout(context.Background(), "s1", 100000, "Cash")

	// The missing product wins over the later shortfall.
	var missing *ProductNotFoundError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Croissant", missing.Name)
	assert.Empty(t, store.orders)
	assert.Len(t, carts.Lines("s1"), 2)
}

func TestCheckout_DeletedCategoryLeavesLineUncategorized(t *testing.T) {
	store, carts, svc := setupCheckout(t)
	carts.Add("s1", store.products["p1"])
	delete(store.categories, "c1")

	order, err := svc.Checkout(context.Background(), "s1", 50, "Cash")
	require.NoError(t, err)
	assert.Empty(t, order.CartItems[0].Category)
}
