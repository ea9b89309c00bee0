package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bistro/internal/model"
	"bistro/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderListLimit bounds a single order listing.
const orderListLimit = 1000

// totalTolerance absorbs float rounding when checking the order total
// against its line items.
const totalTolerance = 0.005

// orderService implements OrderService.
type orderService struct {
	store  *store.Store[model.Order]
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderStore *store.Store[model.Order], logger zerolog.Logger) OrderService {
	return &orderService{
		store:  orderStore,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// List returns all orders.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	page, err := s.store.List(ctx, "", orderListLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	s.logger.Debug().Int("count", len(page.Items)).Msg("retrieved orders")

	return page.Items, nil
}

// Place validates the request and creates a new order. Orders are created
// already confirmed; pending exists as a status value but no creation flow
// produces it.
func (s *orderService) Place(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	order := model.Order{
		ID:        uuid.NewString(),
		Items:     req.Items,
		Total:     req.Total,
		Customer:  req.Customer,
		Status:    model.StatusConfirmed,
		CreatedAt: time.Now().UnixMilli(),
	}

	created, err := s.store.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", created.ID).
		Int("item_count", len(created.Items)).
		Float64("total", created.Total).
		Msg("order placed")

	return &created, nil
}

// Get returns an order by id.
func (s *orderService) Get(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, model.ErrOrderNotFound
		}
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// UpdateStatus replaces the order's status. Any enumerated value may be set
// from any current value; only the value itself is validated.
func (s *orderService) UpdateStatus(ctx context.Context, id, status string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Status = status
	updated, err := s.store.Save(ctx, id, *order)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id).
		Str("status", status).
		Msg("order status updated")

	return &updated, nil
}

// AttachSession records a checkout session id on an order so webhook
// notifications can be correlated back to it.
func (s *orderService) AttachSession(ctx context.Context, orderID, sessionID string) error {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}

	order.SessionID = sessionID
	if _, err := s.store.Save(ctx, orderID, *order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to attach session to order")
		return fmt.Errorf("failed to attach session: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID).
		Str("session_id", sessionID).
		Msg("checkout session attached to order")

	return nil
}

// validateOrderRequest checks customer info, line items and the stated total.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Order request is required")
	}

	if err := req.Customer.Validate(); err != nil {
		return err
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	sum := 0.0
	for i, item := range req.Items {
		if item.Quantity < 1 {
			s.logger.Warn().
				Int("item_index", i).
				Str("menu_item_id", item.ID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity in order request")
			return model.ErrInvalidQuantity
		}
		sum += item.Price * float64(item.Quantity)
	}

	// The total is checked once, here; later menu price changes never
	// retroactively affect a stored order.
	if math.Abs(sum-req.Total) > totalTolerance {
		s.logger.Warn().
			Float64("stated", req.Total).
			Float64("computed", sum).
			Msg("order total does not match line items")
		return model.ErrTotalMismatch
	}

	return nil
}
