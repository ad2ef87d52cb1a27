package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gofresh/internal/auth"
	"gofresh/internal/cart"
	"gofresh/internal/catalog"
	"gofresh/internal/config"
	"gofresh/internal/events"
	"gofresh/internal/handler"
	"gofresh/internal/locale"
	"gofresh/internal/metrics"
	"gofresh/internal/model"
	"gofresh/internal/order"
	"gofresh/internal/scheduler"
	"gofresh/internal/service"
	"gofresh/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAPIKey = "test-api-key"

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// testServer is the full HTTP stack over a shared store and a virtual clock.
type testServer struct {
	t       *testing.T
	handler http.Handler
	clock   *scheduler.Fake
}

func testProducts() []model.Product {
	sale := int64(9900)
	original := int64(12900)
	return []model.Product{
		{ID: "P001", Kind: model.ProductKindCatalog, Name: "Jeju Tangerines", Price: 15900, Category: "fruit", Rocket: true},
		{ID: "P002", Kind: model.ProductKindCatalog, Name: "Hanwoo Sirloin", Price: 45000, Category: "meat"},
		{ID: "D001", Kind: model.ProductKindDeal, Name: "Fuji Apples", Price: original, SalePrice: &sale, OriginalPrice: &original, Category: "fruit"},
	}
}

func newTestServer(t *testing.T, st store.Store) *testServer {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()
	clock := scheduler.NewFake(testStart)
	m := metrics.New(prometheus.NewRegistry())

	prefs := locale.NewPreferences(st, m, logger)
	prefs.Load(ctx)

	authService := auth.NewService(st, clock, config.SimulationConfig{OTPTTL: 3 * time.Minute}, m, logger,
		auth.WithBcryptCost(bcrypt.MinCost))
	authService.Load(ctx)

	ledger := cart.NewLedger(st, m, logger)
	ledger.Load(ctx)

	lifecycle := order.NewLifecycle(st, clock, order.UUIDGenerator{}, order.DefaultProfiles(),
		events.NewLogPublisher(logger), m, logger, order.WithLanguage(prefs.Get))
	lifecycle.Load(ctx)

	catalogService := service.NewCatalogService(catalog.New(testProducts()), clock, logger)
	checkoutService := service.NewCheckoutService(ledger, lifecycle, authService, clock, 0, logger)
	notificationService := service.NewNotificationService(lifecycle, authService, prefs, st, m, logger)
	notificationService.Load(ctx)

	h := New(Handlers{
		Product:    handler.NewProductHandler(catalogService, logger),
		Cart:       handler.NewCartHandler(ledger, catalogService, logger),
		Checkout:   handler.NewCheckoutHandler(checkoutService, logger),
		Order:      handler.NewOrderHandler(lifecycle, authService, logger),
		Auth:       handler.NewAuthHandler(authService, logger),
		Preference: handler.NewPreferenceHandler(prefs, notificationService, logger),
	}, m, testAPIKey, logger)

	return &testServer{t: t, handler: h, clock: clock}
}

// do sends an authenticated request and decodes a JSON response into out when non-nil.
func (s *testServer) do(method, path string, body interface{}, out interface{}) int {
	s.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		require.NoError(s.t, json.NewDecoder(w.Body).Decode(out))
	}
	return w.Code
}

func checkoutBody(method string) map[string]interface{} {
	return map[string]interface{}{
		"shippingAddress": map[string]string{
			"name":    "Kim Minji",
			"phone":   "01012345678",
			"address": "Seoul Gangnam-gu Teheran-ro 1",
		},
		"paymentMethod": method,
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore())

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.do(http.MethodGet, "/api/products", nil, nil)

	w = httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gofresh_http_requests_total{route="GET /api/products",status="200"} 1`)
}

func TestRouter_Catalog(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore())

	var page service.ProductPage
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/products?category=fruit", nil, &page))
	assert.Equal(t, 2, page.Total)

	var product model.Product
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/products/D001", nil, &product))
	assert.Equal(t, int64(9900), product.EffectivePrice())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/products/NOPE", nil, nil))

	var deals []model.Product
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/deals", nil, &deals))
	require.Len(t, deals, 1)
	assert.Equal(t, "D001", deals[0].ID)

	var categories []string
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/categories", nil, &categories))
	assert.Equal(t, []string{"fruit", "meat"}, categories)
}

func TestRouter_CheckoutAndTracking(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore())

	var c handler.CartResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/cart/items", map[string]interface{}{"productId": "P001", "quantity": 2}, &c))
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/cart/items", map[string]interface{}{"productId": "D001"}, &c))
	assert.Equal(t, int64(15900*2+9900), c.Totals.Subtotal)
	assert.Zero(t, c.Totals.ShippingFee)

	var preview service.CheckoutPreview
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/checkout", nil, &preview))
	assert.Len(t, preview.Items, 2)
	assert.Equal(t, c.Totals, preview.Totals)

	var errResp model.ErrorResponse
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/checkout", checkoutBody("bitcoin"), &errResp))
	assert.Equal(t, model.ErrCodeInvalidPaymentMethod, errResp.Error)

	var placed model.Order
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/checkout", checkoutBody("toss_pay"), &placed))
	assert.Equal(t, model.OrderStatusConfirmed, placed.Status)
	assert.True(t, placed.IsRocket)
	assert.Equal(t, model.GuestUserID, placed.UserID)
	assert.Equal(t, int64(41700), placed.Total)

	// Cart is emptied by a successful checkout.
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/cart", nil, &c))
	assert.Empty(t, c.Items)

	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/checkout", checkoutBody("card"), &errResp))
	assert.Equal(t, model.ErrCodeEmptyCart, errResp.Error)

	var orders []model.Order
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/orders", nil, &orders))
	require.Len(t, orders, 1)

	var tracked model.Order
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/tracking/"+placed.TrackingNumber, nil, &tracked))
	assert.Equal(t, placed.ID, tracked.ID)

	var notifications handler.NotificationsResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/notifications", nil, &notifications))
	require.Len(t, notifications.Notifications, 1)
	assert.Equal(t, model.OrderStatusConfirmed, notifications.Notifications[0].Status)
	assert.Equal(t, 1, notifications.UnreadCount)

	// Expedited orders are delivered two minutes after checkout.
	s.clock.Advance(2 * time.Minute)

	var delivered model.Order
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/orders/"+placed.ID, nil, &delivered))
	assert.Equal(t, model.OrderStatusDelivered, delivered.Status)
	assert.Len(t, delivered.StatusHistory, 6)

	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/orders/"+placed.ID+"/cancel", nil, &errResp))
	assert.Equal(t, model.ErrCodeOrderNotCancellable, errResp.Error)

	var unread handler.UnreadCountResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/notifications/unread", nil, &unread))
	assert.Equal(t, 5, unread.UnreadCount)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/notifications/read", nil, &notifications))
	assert.Zero(t, notifications.UnreadCount)
	assert.Equal(t, model.OrderStatusDelivered, notifications.Notifications[0].Status)
}

func TestRouter_CancelStopsLifecycle(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore())

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/cart/items", map[string]interface{}{"productId": "P002"}, nil))

	var placed model.Order
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/checkout", checkoutBody("card"), &placed))
	assert.False(t, placed.IsRocket)

	var cancelled model.Order
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/orders/"+placed.ID+"/cancel", nil, &cancelled))
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	s.clock.Advance(time.Hour)

	var after model.Order
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/orders/"+placed.ID, nil, &after))
	assert.Equal(t, model.OrderStatusCancelled, after.Status)
	assert.Len(t, after.StatusHistory, 3)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/orders/ORD-MISSING/cancel", nil, nil))
}

func TestRouter_SessionAndLanguage(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore())

	var lang handler.LanguageResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/language", map[string]string{"language": "en-GB"}, &lang))
	assert.Equal(t, locale.English, lang.Language)

	var otp auth.OTPRequest
	require.Equal(t, http.StatusAccepted, s.do(http.MethodPost, "/api/auth/otp", map[string]string{"phone": "010-9876-5432"}, &otp))

	var verified handler.VerifyOTPResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/otp/verify", map[string]string{
		"requestId": otp.RequestID, "phone": otp.Phone, "code": "000000",
	}, &verified))
	assert.False(t, verified.Registered)

	var user model.User
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"phone": otp.Phone, "name": "Park Jisoo", "address": "Busan Haeundae-gu", "password": "password123",
	}, &user))

	// The checkout form is prefilled from the profile.
	var preview service.CheckoutPreview
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/checkout", nil, &preview))
	assert.Equal(t, "Park Jisoo", preview.ShippingAddress.Name)
	assert.Equal(t, "01098765432", preview.ShippingAddress.Phone)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/cart/items", map[string]interface{}{"productId": "P002"}, nil))
	var placed model.Order
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/checkout", checkoutBody("naver_pay"), &placed))
	assert.Equal(t, user.ID, placed.UserID)

	var notifications handler.NotificationsResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/notifications", nil, &notifications))
	require.Len(t, notifications.Notifications, 1)
	assert.Equal(t, locale.StatusTitle(locale.English, model.OrderStatusConfirmed), notifications.Notifications[0].Title)

	// Orders belong to the user who placed them.
	require.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/auth/logout", nil, nil))
	var orders []model.Order
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/orders", nil, &orders))
	assert.Empty(t, orders)
}

func TestRouter_StateSurvivesRestart(t *testing.T) {
	st := store.NewMemoryStore()

	first := newTestServer(t, st)
	require.Equal(t, http.StatusOK, first.do(http.MethodPut, "/api/language", map[string]string{"language": "ja"}, nil))
	require.Equal(t, http.StatusOK, first.do(http.MethodPost, "/api/cart/items", map[string]interface{}{"productId": "P002"}, nil))

	var placed model.Order
	require.Equal(t, http.StatusCreated, first.do(http.MethodPost, "/api/checkout", checkoutBody("card"), &placed))
	require.Equal(t, http.StatusOK, first.do(http.MethodPost, "/api/cart/items", map[string]interface{}{"productId": "P001", "quantity": 3}, nil))

	var notifications handler.NotificationsResponse
	require.Equal(t, http.StatusOK, first.do(http.MethodPost, "/api/notifications/read", nil, &notifications))

	second := newTestServer(t, st)

	var lang handler.LanguageResponse
	require.Equal(t, http.StatusOK, second.do(http.MethodGet, "/api/language", nil, &lang))
	assert.Equal(t, locale.Japanese, lang.Language)

	var c handler.CartResponse
	require.Equal(t, http.StatusOK, second.do(http.MethodGet, "/api/cart", nil, &c))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	var restored model.Order
	require.Equal(t, http.StatusOK, second.do(http.MethodGet, "/api/orders/"+placed.ID, nil, &restored))
	assert.Equal(t, model.OrderStatusConfirmed, restored.Status)

	var unread handler.UnreadCountResponse
	require.Equal(t, http.StatusOK, second.do(http.MethodGet, "/api/notifications/unread", nil, &unread))
	assert.Zero(t, unread.UnreadCount)

	// Transitions are rescheduled on the restored lifecycle.
	second.clock.Advance(10 * time.Minute)

	require.Equal(t, http.StatusOK, second.do(http.MethodGet, "/api/orders/"+placed.ID, nil, &restored))
	assert.Equal(t, model.OrderStatusDelivered, restored.Status)

	require.Equal(t, http.StatusOK, second.do(http.MethodGet, "/api/notifications/unread", nil, &unread))
	assert.Equal(t, 4, unread.UnreadCount)
}
