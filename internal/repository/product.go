package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bakepos/server/internal/model"
)

const productColumns = "id, name, category_id, price, stock, status, image, description, created_at"

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Price, &p.Stock, &p.Status, &p.Image, &p.Description, &p.CreatedAt)
	return p, err
}

func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.getExecutor(ctx).Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(s.getExecutor(ctx).QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// GetProductForUpdate locks the product row for the duration of the
// surrounding transaction. Used by checkout to make the stock check and
// the decrement one atomic step.
func (s *Store) GetProductForUpdate(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(s.getExecutor(ctx).QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to lock product: %w", err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p model.Product) error {
	_, err := s.getExecutor(ctx).Exec(ctx, `
		INSERT INTO products (id, name, category_id, price, stock, status, image, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.CategoryID, p.Price, p.Stock, p.Status, p.Image, p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p model.Product) error {
	tag, err := s.getExecutor(ctx).Exec(ctx, `
		UPDATE products
		SET name = $2, category_id = $3, price = $4, stock = $5, status = $6, image = $7, description = $8
		WHERE id = $1`,
		p.ID, p.Name, p.CategoryID, p.Price, p.Stock, p.Status, p.Image, p.Description)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.getExecutor(ctx).Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock subtracts quantity from the product's stock.
func (s *Store) DecrementStock(ctx context.Context, id string, quantity int) error {
	tag, err := s.getExecutor(ctx).Exec(ctx, "UPDATE products SET stock = stock - $1 WHERE id = $2", quantity, id)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ProductReferencedByOrder reports whether any stored order line refers
// to the product.
func (s *Store) ProductReferencedByOrder(ctx context.Context, id string) (bool, error) {
	ref, err := json.Marshal([]map[string]string{{"productId": id}})
	if err != nil {
		return false, err
	}
	var exists bool
	err = s.getExecutor(ctx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM orders WHERE cart_items @> $1::jsonb)", string(ref)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product references: %w", err)
	}
	return exists, nil
}
