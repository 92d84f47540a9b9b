package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bakepos/server/internal/model"
)

const categoryColumns = "id, name, description, status, image"

func scanCategory(row pgx.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.Image)
	return c, err
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.getExecutor(ctx).Query(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (model.Category, error) {
	c, err := scanCategory(s.getExecutor(ctx).QueryRow(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c model.Category) error {
	_, err := s.getExecutor(ctx).Exec(ctx, `
		INSERT INTO categories (id, name, description, status, image)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Description, c.Status, c.Image)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c model.Category) error {
	tag, err := s.getExecutor(ctx).Exec(ctx, `
		UPDATE categories SET name = $2, description = $3, status = $4, image = $5 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Status, c.Image)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.getExecutor(ctx).Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryHasProducts reports whether any product references the category.
func (s *Store) CategoryHasProducts(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.getExecutor(ctx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category references: %w", err)
	}
	return exists, nil
}
