package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"bistro/internal/model"
	"bistro/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve orders", h.logger)
		return
	}

	writeOK(w, http.StatusOK, orders)
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Place(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeOK(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r.URL.Path)
	if !ok {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	writeOK(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderStatusID(r.URL.Path)
	if !ok {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to update order status", h.logger)
		return
	}

	writeOK(w, http.StatusOK, order)
}

// orderID extracts the order id from a /api/orders/{id} path.
func orderID(path string) (string, bool) {
	id := strings.TrimPrefix(path, "/api/orders/")
	if id == path || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// orderStatusID extracts the order id from a /api/orders/{id}/status path.
func orderStatusID(path string) (string, bool) {
	trimmed := strings.TrimPrefix(path, "/api/orders/")
	if trimmed == path {
		return "", false
	}
	id := strings.TrimSuffix(trimmed, "/status")
	if id == trimmed || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
