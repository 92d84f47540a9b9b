package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bakepos/server/internal/model"
	"github.com/bakepos/server/internal/repository"
)

// CheckoutStore is the slice of the repository checkout needs.
type CheckoutStore interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
	GetProductForUpdate(ctx context.Context, id string) (model.Product, error)
	DecrementStock(ctx context.Context, id string, quantity int) error
	GetCategory(ctx context.Context, id string) (model.Category, error)
	InsertOrder(ctx context.Context, o model.Order) error
}

type CheckoutService struct {
	store CheckoutStore
	carts *CartManager
	now   func() time.Time
}

func NewCheckoutService(store CheckoutStore, carts *CartManager) *CheckoutService {
	return &CheckoutService{store: store, carts: carts, now: time.Now}
}

// Checkout validates the payment against the cart totals, then runs the
// stock check, order insert and stock decrements as one transaction. The
// cart is preserved on any rejection so the cashier can correct it; it is
// cleared only after the transaction commits.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, paymentAmount float64, paymentMethod string) (model.Order, error) {
	lines := s.carts.Lines(sessionID)
	if len(lines) == 0 {
		return model.Order{}, ErrEmptyCart
	}

	totals := s.carts.Totals(sessionID)
	if paymentAmount < totals.GrandTotal {
		return model.Order{}, ErrInsufficientPayment
	}

	order := model.Order{
		ID:            uuid.NewString(),
		Subtotal:      totals.Subtotal,
		GrandTotal:    totals.GrandTotal,
		PaymentAmount: paymentAmount,
		Change:        paymentAmount - totals.GrandTotal,
		PaymentMethod: paymentMethod,
		Timestamp:     s.now().UTC(),
	}

	err := s.store.RunAtomic(ctx, func(ctx context.Context) error {
		var shortfall []string
		categoryNames := make(map[string]string)

		for _, line := range lines {
			p, err := s.store.GetProductForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return &ProductNotFoundError{Name: line.ProductName}
				}
				return err
			}

			if line.Quantity > p.Stock {
				shortfall = append(shortfall, line.ProductName)
				continue
			}

			categoryName, ok := categoryNames[line.CategoryID]
			if !ok {
				categoryName = ""
				if line.CategoryID != "" {
					cat, err := s.store.GetCategory(ctx, line.CategoryID)
					if err != nil && !errors.Is(err, repository.ErrNotFound) {
						return err
					}
					// A deleted category leaves the line uncategorized.
					categoryName = cat.Name
				}
				categoryNames[line.CategoryID] = categoryName
			}

			order.CartItems = append(order.CartItems, model.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				Price:       line.UnitPrice,
				Category:    categoryName,
				Total:       line.Total(),
			})
		}

		if len(shortfall) > 0 {
			return &StockShortfallError{Items: shortfall}
		}

		if err := s.store.InsertOrder(ctx, order); err != nil {
			return err
		}
		for _, line := range lines {
			if err := s.store.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	s.carts.Clear(sessionID)
	return order, nil
}
