package router

import (
	"net/http"
	"strings"

	"bistro/internal/handler"
	"bistro/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// The admin key guards only the menu mutation and cleanup routes; the
// storefront routes (menu listing, orders, payments) stay open.
func New(
	menuHandler *handler.MenuHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	adminKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	adminOnly := middleware.AdminKeyAuth(adminKey, logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Menu handler function
	menuRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/menu" || r.URL.Path == "/api/menu/" {
			switch r.Method {
			case http.MethodGet:
				menuHandler.List(w, r)
			case http.MethodPost:
				adminOnly(http.HandlerFunc(menuHandler.Create)).ServeHTTP(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if r.URL.Path == "/api/menu/cleanup" {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			adminOnly(http.HandlerFunc(menuHandler.Cleanup)).ServeHTTP(w, r)
			return
		}

		// Remaining paths address a specific item: /api/menu/{id}
		switch r.Method {
		case http.MethodPut:
			adminOnly(http.HandlerFunc(menuHandler.Update)).ServeHTTP(w, r)
		case http.MethodDelete:
			adminOnly(http.HandlerFunc(menuHandler.Delete)).ServeHTTP(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	// Register menu routes (both with and without trailing slash)
	mux.HandleFunc("/api/menu", menuRouteHandler)
	mux.HandleFunc("/api/menu/", menuRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			switch r.Method {
			case http.MethodGet:
				orderHandler.List(w, r)
			case http.MethodPost:
				orderHandler.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if strings.HasSuffix(r.URL.Path, "/status") {
			if r.Method != http.MethodPatch {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			orderHandler.UpdateStatus(w, r)
			return
		}

		if r.Method == http.MethodGet {
			orderHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	mux.HandleFunc("/api/payments/checkout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		paymentHandler.Checkout(w, r)
	})

	mux.HandleFunc("/api/payments/notify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		paymentHandler.Notify(w, r)
	})

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
