package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bakepos/server/internal/model"
)

func (s *Store) InsertOrder(ctx context.Context, o model.Order) error {
	items, err := json.Marshal(o.CartItems)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}
	_, err = s.getExecutor(ctx).Exec(ctx, `
		INSERT INTO orders (id, cart_items, subtotal, grand_total, payment_amount, change, payment_method, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, items, o.Subtotal, o.GrandTotal, o.PaymentAmount, o.Change, o.PaymentMethod, o.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := s.getExecutor(ctx).Query(ctx, `
		SELECT id, cart_items, subtotal, grand_total, payment_amount, change, payment_method, ts
		FROM orders ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var items []byte
		if err := rows.Scan(&o.ID, &items, &o.Subtotal, &o.GrandTotal, &o.PaymentAmount, &o.Change, &o.PaymentMethod, &o.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal(items, &o.CartItems); err != nil {
			return nil, fmt.Errorf("order %s: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	tag, err := s.getExecutor(ctx).Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
