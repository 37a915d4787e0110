package store

import (
	"time"
)

// Product represents an individual item available for sale.
// Prices are kept in cents to avoid floating-point errors.
//
//validgen:validated
type Product struct {
	id          int64  `json:"id"` //validgen:validator positiveID
	sku         string `json:"sku"` //validgen:validator nonBlank
	name        string `json:"name"`
	description string `json:"description,omitempty"`
	// priceCents may be zero for free items.
	//validgen:validator func(c int64) (int64, error) { if c < 0 { return c, ErrNegativePrice }; return c, nil }
	priceCents int64     `json:"price_cents"`
	createdAt  time.Time `json:"created_at"`
}

// Customer represents the user placing orders.
//
//validgen:validated
//validgen:error *FieldError
type Customer struct {
	id int64 `json:"id"`
	//validgen:validator isEmail, &FieldError{Field: "email", Reason: "not an email address"}
	email    string  `json:"email"`
	fullName string  `json:"full_name"` //validgen:validator trimmed
	address  *string `json:"address"`
}

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
//
//validgen:validated
type OrderItem struct {
	productID int64 `json:"product_id"` //validgen:validator positiveID
	//validgen:validator atLeast(1)
	quantity  int   `json:"quantity"`
	unitPrice int64 `json:"unit_price"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is not annotated; it only groups checked items.
type Order struct {
	ID         int64
	CustomerID int64
	Status     OrderStatus
	Items      []OrderItem
	OrderedAt  time.Time
}
