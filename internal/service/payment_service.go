package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bistro/internal/kv"
	"bistro/internal/model"
	"bistro/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sessionKey maps a gateway session id to the order it pays for.
func sessionKey(sessionID string) string { return "pay.session." + sessionID }

// notifyKey marks a webhook notification as processed. Keyed by session id
// and status so a later, different status for the same session still applies.
func notifyKey(sessionID, status string) string { return "pay.notify." + sessionID + "." + status }

// paymentService implements PaymentService.
type paymentService struct {
	gateway payment.Gateway
	orders  OrderService
	backend kv.Store
	logger  zerolog.Logger
}

// NewPaymentService creates a new payment service. The KV backend holds the
// session-to-order mapping and the processed-notification markers.
func NewPaymentService(gateway payment.Gateway, orders OrderService, backend kv.Store, logger zerolog.Logger) PaymentService {
	return &paymentService{
		gateway: gateway,
		orders:  orders,
		backend: backend,
		logger:  logger.With().Str("service", "payment").Logger(),
	}
}

// Checkout validates the request and creates a gateway checkout session.
// When the request names an order, the session is correlated to it: the
// mapping is persisted and the session id stamped on the order. Checkout is
// deliberately not ordered with respect to order placement; an order can
// exist with no completed payment.
func (s *paymentService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	// A fresh nonce per attempt unless the client supplied its own.
	nonce := req.Nonce
	if nonce == "" {
		nonce = uuid.NewString()
	}

	session, err := s.gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		Phone:          req.Phone,
		Email:          req.Email,
		Nonce:          nonce,
		PaymentMethods: req.PaymentMethods,
		Items:          req.Items,
		Lang:           req.Lang,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("checkout session creation failed")
		return nil, err
	}

	if req.OrderID != "" {
		s.correlateSession(ctx, session.SessionID, req.OrderID)
	}

	return &model.CheckoutResponse{
		CheckoutID:  session.SessionID,
		CheckoutURL: session.PaymentURL,
	}, nil
}

// correlateSession persists the session-to-order mapping and stamps the
// session id on the order. Failures here never fail the checkout: the
// session already exists at the gateway.
func (s *paymentService) correlateSession(ctx context.Context, sessionID, orderID string) {
	if err := s.backend.Put(ctx, sessionKey(sessionID), []byte(orderID)); err != nil {
		s.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Str("order_id", orderID).
			Msg("failed to persist session-to-order mapping")
	}

	if err := s.orders.AttachSession(ctx, orderID, sessionID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Str("order_id", orderID).
			Msg("failed to stamp session on order")
	}
}

// HandleNotification applies a webhook notification. Delivery is
// at-least-once: a processed marker per sessionId+status short-circuits
// duplicates, and the applied effect (setting the order to completed) is
// itself idempotent, so a marker race between concurrent duplicates is
// harmless.
func (s *paymentService) HandleNotification(ctx context.Context, n *model.PaymentNotification) error {
	if n == nil || n.SessionID == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Notification session id is required")
	}

	s.logger.Info().
		Str("session_id", n.SessionID).
		Str("status", n.Status).
		Float64("total_amount", n.TotalAmount).
		Msg("payment notification received")

	marker := notifyKey(n.SessionID, n.Status)
	if _, err := s.backend.Get(ctx, marker); err == nil {
		s.logger.Info().
			Str("session_id", n.SessionID).
			Str("status", n.Status).
			Msg("duplicate payment notification ignored")
		return nil
	} else if !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("failed to check notification marker: %w", err)
	}

	record, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := s.backend.Put(ctx, marker, record); err != nil {
		return fmt.Errorf("failed to persist notification marker: %w", err)
	}

	switch n.Status {
	case model.PaymentStatusSuccess:
		return s.completeOrder(ctx, n.SessionID)
	case model.PaymentStatusFailed:
		// Failed payments are signalled to the UI by the gateway redirect;
		// the order record keeps its current status.
		s.logger.Info().Str("session_id", n.SessionID).Msg("payment failed")
		return nil
	default:
		s.logger.Warn().
			Str("session_id", n.SessionID).
			Str("status", n.Status).
			Msg("unrecognised payment notification status")
		return nil
	}
}

// completeOrder resolves the session mapping and moves the order to
// completed. A session with no mapping (checkout initiated without an order
// id) is logged and acknowledged.
func (s *paymentService) completeOrder(ctx context.Context, sessionID string) error {
	orderID, err := s.backend.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			s.logger.Warn().
				Str("session_id", sessionID).
				Msg("no order correlated with payment session")
			return nil
		}
		return fmt.Errorf("failed to resolve payment session: %w", err)
	}

	if _, err := s.orders.UpdateStatus(ctx, string(orderID), model.StatusCompleted); err != nil {
		return fmt.Errorf("failed to complete order %s: %w", orderID, err)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("order_id", string(orderID)).
		Msg("order completed from payment notification")

	return nil
}

// validateCheckoutRequest checks the fields the gateway requires.
func (s *paymentService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Checkout request is required")
	}
	if req.Phone == "" || req.Email == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Payer phone and email are required")
	}
	if len(req.PaymentMethods) == 0 {
		return model.NewDomainError(model.ErrCodeValidation, "At least one payment method is required")
	}
	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Checkout requires at least one item")
	}
	for _, item := range req.Items {
		if item.Name == "" || item.Price <= 0 || item.Quantity < 1 {
			return model.NewDomainError(model.ErrCodeValidation, "Checkout items need a name, positive price and quantity")
		}
	}
	return nil
}
