package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"gofresh/internal/model"
	"gofresh/internal/order"
	"gofresh/internal/scheduler"

	"github.com/rs/zerolog"
)

// PlaceOrderRequest is the checkout form.
type PlaceOrderRequest struct {
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod"`
}

// CheckoutPreview is the data needed to render the checkout page.
type CheckoutPreview struct {
	Items           []model.CartItem      `json:"items"`
	Totals          model.CartTotals      `json:"totals"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethods  []model.PaymentMethod `json:"paymentMethods"`
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	cart         Cart
	orders       OrderPlacer
	session      Session
	scheduler    scheduler.Scheduler
	paymentDelay time.Duration
	inFlight     atomic.Bool
	logger       zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cart Cart,
	orders OrderPlacer,
	session Session,
	sched scheduler.Scheduler,
	paymentDelay time.Duration,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		cart:         cart,
		orders:       orders,
		session:      session,
		scheduler:    sched,
		paymentDelay: paymentDelay,
		logger:       logger.With().Str("service", "checkout").Logger(),
	}
}

// Preview returns the cart, its totals and the prefilled shipping address.
func (s *checkoutService) Preview(_ context.Context) *CheckoutPreview {
	items, totals := s.cart.Snapshot()
	return &CheckoutPreview{
		Items:           items,
		Totals:          totals,
		ShippingAddress: s.session.DefaultShippingAddress(),
		PaymentMethods:  model.PaymentMethods(),
	}
}

// PlaceOrder validates the form, waits for the simulated payment, creates
// the order from a cart snapshot and deducts exactly that snapshot from the
// cart. A second call while one is running fails with ErrCheckoutInProgress.
func (s *checkoutService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn().Msg("checkout already in progress")
		return nil, model.ErrCheckoutInProgress
	}
	defer s.inFlight.Store(false)

	items, totals := s.cart.Snapshot()
	if len(items) == 0 {
		s.logger.Warn().Msg("checkout attempted with an empty cart")
		return nil, model.ErrEmptyCart
	}

	if missing := req.ShippingAddress.MissingFields(); len(missing) > 0 {
		s.logger.Warn().Strs("missing_fields", missing).Msg("shipping address incomplete")
		return nil, fmt.Errorf("%w: shipping %s", model.ErrMissingField, strings.Join(missing, ", "))
	}

	if !req.PaymentMethod.IsValid() {
		s.logger.Warn().Str("payment_method", string(req.PaymentMethod)).Msg("invalid payment method")
		return nil, model.ErrInvalidPaymentMethod
	}

	if err := scheduler.Sleep(ctx, s.scheduler, s.paymentDelay); err != nil {
		s.logger.Info().Err(err).Msg("payment aborted")
		return nil, fmt.Errorf("payment aborted: %w", err)
	}

	created, err := s.orders.CreateOrder(ctx, order.CreateOrderRequest{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Totals:          totals,
		UserID:          s.session.CurrentUserID(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.cart.Deduct(ctx, items)

	s.logger.Info().
		Str("order_id", created.ID).
		Str("tracking_number", created.TrackingNumber).
		Int64("total", created.Total).
		Str("payment_method", string(created.PaymentMethod)).
		Msg("order placed successfully")

	return created, nil
}
