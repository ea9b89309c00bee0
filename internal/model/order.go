package model

import (
	"net/mail"
	"strings"
	"unicode"
)

// Order status values. Transitions between them are not enforced at the
// storage layer; any value may replace any other.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
)

// CartItem is a snapshot of a menu item at order time plus a quantity.
type CartItem struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// CustomerInfo holds the contact details captured at checkout.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks each customer field independently.
func (c *CustomerInfo) Validate() error {
	if len(strings.TrimSpace(c.Name)) < 2 {
		return NewDomainError(ErrCodeValidation, "Name must be at least 2 characters")
	}

	if _, err := mail.ParseAddress(c.Email); err != nil {
		return NewDomainError(ErrCodeValidation, "Please enter a valid email address")
	}

	if digitCount(c.Phone) < 10 {
		return NewDomainError(ErrCodeValidation, "Phone number must be at least 10 digits")
	}

	return nil
}

// digitCount counts decimal digits, ignoring separators and a leading '+'.
func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Order represents a customer order. Items and Total are fixed at creation
// time; only Status and SessionID change afterwards.
type Order struct {
	ID        string       `json:"id"`
	Items     []CartItem   `json:"items"`
	Total     float64      `json:"total"`
	Customer  CustomerInfo `json:"customer"`
	Status    string       `json:"status"`
	SessionID string       `json:"sessionId,omitempty"`
	CreatedAt int64        `json:"createdAt"`
}

// EntityID returns the order's unique identifier.
func (o Order) EntityID() string { return o.ID }

// ValidOrderStatus reports whether s is one of the enumerated status values.
func ValidOrderStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// OrderRequest is the payload for placing a new order.
type OrderRequest struct {
	Items    []CartItem   `json:"items"`
	Total    float64      `json:"total"`
	Customer CustomerInfo `json:"customer"`
}

// StatusUpdateRequest is the payload for updating an order's status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
