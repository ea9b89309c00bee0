package service

import (
	"context"

	"bistro/internal/model"
)

// MenuService defines operations for menu management.
type MenuService interface {
	// List returns all listable menu items, seeding the store on first use.
	List(ctx context.Context) ([]model.MenuItem, error)

	// Create validates and stores a new menu item.
	Create(ctx context.Context, item *model.MenuItem) (*model.MenuItem, error)

	// Update validates and replaces an existing menu item.
	Update(ctx context.Context, id string, item *model.MenuItem) (*model.MenuItem, error)

	// Delete removes a menu item and its index entry.
	Delete(ctx context.Context, id string) error

	// Cleanup removes orphaned index entries and invalid records.
	Cleanup(ctx context.Context) (*model.CleanupResult, error)
}

// OrderService defines operations for the order lifecycle.
type OrderService interface {
	// List returns all orders.
	List(ctx context.Context) ([]model.Order, error)

	// Place validates and creates a new order in confirmed status.
	Place(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// Get returns an order by id.
	Get(ctx context.Context, id string) (*model.Order, error)

	// UpdateStatus replaces an order's status with one of the enumerated
	// values. Transition order is not enforced.
	UpdateStatus(ctx context.Context, id, status string) (*model.Order, error)

	// AttachSession records a checkout session id on an order.
	AttachSession(ctx context.Context, orderID, sessionID string) error
}

// PaymentService defines the payment checkout and webhook operations.
type PaymentService interface {
	// Checkout initiates a gateway checkout session and, when an order id
	// is supplied, correlates the session to the order.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// HandleNotification applies a gateway webhook notification. It is
	// idempotent under at-least-once delivery.
	HandleNotification(ctx context.Context, n *model.PaymentNotification) error
}
