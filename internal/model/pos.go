package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Image       string `json:"image"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CategoryID  string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductView is a Product with the category name denormalized for display.
type ProductView struct {
	Product
	CategoryName string `json:"categoryName"`
}

// CartLine is one product/quantity pairing held for the duration of a
// checkout session. UnitPrice is the price snapshot captured when the
// product was first added.
type CartLine struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	CategoryID  string  `json:"category"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

func (l CartLine) Total() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

type CartTotals struct {
	Subtotal   float64 `json:"subtotal"`
	GrandTotal float64 `json:"grandTotal"`
}

// OrderItem mirrors the stored shape of one order line. Legacy rows
// sometimes carry quantity/price/total as strings, so decoding accepts
// both forms and normalizes to numbers.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Total       float64 `json:"total"`
}

func (it *OrderItem) UnmarshalJSON(b []byte) error {
	var raw struct {
		ProductID   string    `json:"productId"`
		ProductName string    `json:"productName"`
		Quantity    flexInt   `json:"quantity"`
		Price       flexFloat `json:"price"`
		Category    string    `json:"category"`
		Total       flexFloat `json:"total"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	it.ProductID = raw.ProductID
	it.ProductName = raw.ProductName
	it.Quantity = int(raw.Quantity)
	it.Price = float64(raw.Price)
	it.Category = raw.Category
	it.Total = float64(raw.Total)
	return nil
}

type Order struct {
	ID            string      `json:"id"`
	CartItems     []OrderItem `json:"cartItems"`
	Subtotal      float64     `json:"subtotal"`
	GrandTotal    float64     `json:"grandTotal"`
	PaymentAmount float64     `json:"paymentAmount"`
	Change        float64     `json:"change"`
	PaymentMethod string      `json:"paymentMethod"`
	Timestamp     time.Time   `json:"timestamp"`
}

// DeserializationError reports a stored value that could not be parsed
// into its canonical type.
type DeserializationError struct {
	Value string
	Err   error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("cannot deserialize %q: %v", e.Value, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// flexFloat decodes a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return &DeserializationError{Value: s, Err: err}
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON integer or an integer string.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return &DeserializationError{Value: s, Err: err}
	}
	*i = flexInt(v)
	return nil
}
