package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bakepos/server/internal/model"
	"github.com/bakepos/server/internal/repository"
)

const tokenTTL = 24 * time.Hour

// UserStore is the slice of the repository auth needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (model.UserAccount, error)
	UserEmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, u model.UserAccount) error
	ListUsers(ctx context.Context) ([]model.UserAccount, error)
	UpdateUserStatus(ctx context.Context, id, status string) error
}

type AuthService struct {
	users  UserStore
	secret []byte
	now    func() time.Time
}

func NewAuthService(users UserStore, secret []byte) *AuthService {
	return &AuthService{users: users, secret: secret, now: time.Now}
}

// Login resolves the username, verifies the password and issues a signed
// token carrying the account identity.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, model.UserAccount, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", model.UserAccount{}, ErrInvalidCredentials
		}
		return "", model.UserAccount{}, err
	}
	if u.Status != model.AccountStatusActive {
		return "", model.UserAccount{}, ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", model.UserAccount{}, ErrInvalidCredentials
	}

	claims := &model.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Type:     u.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", model.UserAccount{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, u, nil
}

// ParseToken validates a bearer token and returns the session it carries.
func (s *AuthService) ParseToken(tokenStr string) (model.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &model.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Session{}, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*model.Claims)
	if !ok {
		return model.Session{}, ErrInvalidCredentials
	}
	return model.Session{UserID: claims.UserID, Username: claims.Username, Type: claims.Type}, nil
}

type CreateStaffInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// CreateStaff provisions a staff account. Duplicate email or username is
// rejected before anything is written.
func (s *AuthService) CreateStaff(ctx context.Context, in CreateStaffInput) (model.UserAccount, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Password == "" || !strings.Contains(in.Email, "@") {
		return model.UserAccount{}, ErrInvalidCredentials
	}

	emailTaken, err := s.users.UserEmailExists(ctx, in.Email)
	if err != nil {
		return model.UserAccount{}, err
	}
	if emailTaken {
		return model.UserAccount{}, ErrEmailTaken
	}
	usernameTaken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return model.UserAccount{}, err
	}
	if usernameTaken {
		return model.UserAccount{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.UserAccount{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := model.UserAccount{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Type:         model.AccountTypeStaff,
		Status:       model.AccountStatusActive,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return model.UserAccount{}, err
	}
	return u, nil
}

func (s *AuthService) Accounts(ctx context.Context) ([]model.UserAccount, error) {
	return s.users.ListUsers(ctx)
}

func (s *AuthService) SetAccountStatus(ctx context.Context, id, status string) error {
	if status != model.AccountStatusActive && status != model.AccountStatusInactive {
		return fmt.Errorf("invalid status %q", status)
	}
	err := s.users.UpdateUserStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
