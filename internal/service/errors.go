package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("insufficient payment amount")
	ErrNotFound            = errors.New("not found")
	ErrCategoryInUse       = errors.New("category is associated with one or more products")
	ErrProductInUse        = errors.New("product is referenced by one or more orders")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrEmailTaken          = errors.New("email is already in use")
	ErrUsernameTaken       = errors.New("username is already in use")
)

// StockShortfallError lists every cart line whose requested quantity
// exceeds the recorded stock. All lines are checked before reporting.
type StockShortfallError struct {
	Items []string
}

func (e *StockShortfallError) Error() string {
	return "insufficient stock for the following items: " + strings.Join(e.Items, ", ")
}

// ProductNotFoundError reports a cart line whose product no longer
// exists. Checkout stops at the first such line.
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.Name)
}
