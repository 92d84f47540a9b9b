package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bakepos/server/internal/model"
)

const userColumns = "id, username, email, first_name, last_name, type, status, password_hash, created_at"

func scanUser(row pgx.Row) (model.UserAccount, error) {
	var u model.UserAccount
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Type, &u.Status, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.UserAccount, error) {
	u, err := scanUser(s.getExecutor(ctx).QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserAccount{}, ErrNotFound
		}
		return model.UserAccount{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Store) UserEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.getExecutor(ctx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.getExecutor(ctx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.UserAccount) error {
	_, err := s.getExecutor(ctx).Exec(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, type, status, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Type, u.Status, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.UserAccount, error) {
	rows, err := s.getExecutor(ctx).Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.UserAccount
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserStatus(ctx context.Context, id, status string) error {
	tag, err := s.getExecutor(ctx).Exec(ctx, "UPDATE users SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
