package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccountTypeAdmin = "admin"
	AccountTypeStaff = "staff"

	AccountStatusActive   = "Active"
	AccountStatusInactive = "Inactive"
)

type UserAccount struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// Session is the authenticated identity carried through request context.
// It replaces the ambient global store of the original UI: loaded per
// request from the bearer token, gone when the request ends.
type Session struct {
	UserID   string
	Username string
	Type     string
}

func (s Session) IsAdmin() bool {
	return s.Type == AccountTypeAdmin
}
