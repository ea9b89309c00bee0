package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"bistro/internal/model"
	"bistro/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	service       service.PaymentService
	webhookSecret string
	logger        zerolog.Logger
}

// NewPaymentHandler creates a new payment handler. When webhookSecret is
// non-empty, notify requests must present it in the X-Webhook-Secret header.
func NewPaymentHandler(service service.PaymentService, webhookSecret string, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:       service,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("handler", "payment").Logger(),
	}
}

// Checkout handles POST /api/payments/checkout requests.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Checkout(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create checkout session", h.logger)
		return
	}

	writeOK(w, http.StatusOK, resp)
}

// Notify handles POST /api/payments/notify webhook requests. The gateway
// retries on non-2xx, so once the payload parses the route acknowledges with
// 200 even if applying the notification fails; failures are logged and the
// idempotent processing makes a later manual replay safe.
func (h *PaymentHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret != "" {
		provided := r.Header.Get("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.webhookSecret)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid webhook secret", h.logger)
			return
		}
	}

	var notification model.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification body", h.logger)
		return
	}

	if err := h.service.HandleNotification(r.Context(), &notification); err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == model.ErrCodeValidation {
			writeError(w, http.StatusBadRequest, domainErr.Message, h.logger)
			return
		}

		h.logger.Error().
			Err(err).
			Str("session_id", notification.SessionID).
			Msg("failed to apply payment notification")
	}

	writeOK(w, http.StatusOK, map[string]bool{"received": true})
}
