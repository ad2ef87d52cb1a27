package router

import (
	"net/http"

	"gofresh/internal/handler"
	"gofresh/internal/metrics"
	"gofresh/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups every HTTP handler the router serves.
type Handlers struct {
	Product    *handler.ProductHandler
	Cart       *handler.CartHandler
	Checkout   *handler.CheckoutHandler
	Order      *handler.OrderHandler
	Auth       *handler.AuthHandler
	Preference *handler.PreferenceHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, m *metrics.Metrics, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics endpoints (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Catalogue
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/deals", h.Product.Deals)
	mux.HandleFunc("GET /api/categories", h.Product.Categories)

	// Cart
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.Cart.RemoveItem)

	// Checkout and orders
	mux.HandleFunc("GET /api/checkout", h.Checkout.Preview)
	mux.HandleFunc("POST /api/checkout", h.Checkout.PlaceOrder)
	mux.HandleFunc("GET /api/orders", h.Order.List)
	mux.HandleFunc("GET /api/orders/{id}", h.Order.GetByID)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.Order.Cancel)
	mux.HandleFunc("GET /api/tracking/{trackingNumber}", h.Order.GetByTracking)

	// Session
	mux.HandleFunc("POST /api/auth/otp", h.Auth.SendOTP)
	mux.HandleFunc("POST /api/auth/otp/verify", h.Auth.VerifyOTP)
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Auth.Me)
	mux.HandleFunc("PUT /api/auth/me", h.Auth.UpdateMe)

	// Preferences
	mux.HandleFunc("GET /api/language", h.Preference.GetLanguage)
	mux.HandleFunc("PUT /api/language", h.Preference.SetLanguage)
	mux.HandleFunc("GET /api/notifications", h.Preference.ListNotifications)
	mux.HandleFunc("GET /api/notifications/unread", h.Preference.UnreadCount)
	mux.HandleFunc("POST /api/notifications/read", h.Preference.MarkAllNotificationsRead)
	mux.HandleFunc("POST /api/notifications/{id}/read", h.Preference.MarkNotificationRead)

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Metrics(m)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
