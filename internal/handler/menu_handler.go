package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"bistro/internal/model"
	"bistro/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu-related HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// List handles GET /api/menu requests.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve menu", h.logger)
		return
	}

	writeOK(w, http.StatusOK, items)
}

// Create handles POST /api/menu requests.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item model.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	created, err := h.service.Create(r.Context(), &item)
	if err != nil {
		writeServiceError(w, err, "failed to create menu item", h.logger)
		return
	}

	writeOK(w, http.StatusCreated, created)
}

// Update handles PUT /api/menu/{id} requests.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := menuItemID(r.URL.Path)
	if id == "" {
		writeError(w, http.StatusBadRequest, "menu item ID is required", h.logger)
		return
	}

	var item model.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &item)
	if err != nil {
		writeServiceError(w, err, "failed to update menu item", h.logger)
		return
	}

	writeOK(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/menu/{id} requests.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := menuItemID(r.URL.Path)
	if id == "" {
		writeError(w, http.StatusBadRequest, "menu item ID is required", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete menu item", h.logger)
		return
	}

	writeOK(w, http.StatusOK, map[string]string{"id": id})
}

// Cleanup handles POST /api/menu/cleanup requests.
func (h *MenuHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Cleanup(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to clean up menu", h.logger)
		return
	}

	writeOK(w, http.StatusOK, result)
}

// menuItemID extracts the item id from a /api/menu/{id} path.
func menuItemID(path string) string {
	id := strings.TrimPrefix(path, "/api/menu/")
	if id == path || strings.Contains(id, "/") {
		return ""
	}
	return id
}
