// Package order turns cart snapshots into orders and advances them through
// the fulfilment statuses on a schedule.
package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gofresh/internal/events"
	"gofresh/internal/locale"
	"gofresh/internal/metrics"
	"gofresh/internal/model"
	"gofresh/internal/scheduler"
	"gofresh/internal/store"

	"github.com/rs/zerolog"
)

const (
	maxIDAttempts  = 8
	publishTimeout = 5 * time.Second
)

// CreateOrderRequest carries a checkout snapshot.
type CreateOrderRequest struct {
	Items           []model.CartItem
	ShippingAddress model.ShippingAddress
	PaymentMethod   model.PaymentMethod
	Totals          model.CartTotals
	UserID          string
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithLanguage sets the source of the language used for status history messages.
func WithLanguage(fn func() string) Option {
	return func(l *Lifecycle) {
		l.language = fn
	}
}

// Lifecycle owns every order of the session, most recent first.
type Lifecycle struct {
	mu         sync.Mutex
	orders     []*model.Order
	byID       map[string]*model.Order
	byTracking map[string]*model.Order

	store     *store.BestEffort
	scheduler scheduler.Scheduler
	ids       IDGenerator
	profiles  Profiles
	publisher events.Publisher
	language  func() string
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewLifecycle creates an empty lifecycle. Call Load to restore persisted orders.
func NewLifecycle(
	s store.Store,
	sched scheduler.Scheduler,
	ids IDGenerator,
	profiles Profiles,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts ...Option,
) *Lifecycle {
	logger = logger.With().Str("component", "order").Logger()

	l := &Lifecycle{
		byID:       make(map[string]*model.Order),
		byTracking: make(map[string]*model.Order),
		store:      store.NewBestEffort(s, m, logger),
		scheduler:  sched,
		ids:        ids,
		profiles:   profiles,
		publisher:  publisher,
		language:   func() string { return locale.Default },
		metrics:    m,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateOrder snapshots the request into a confirmed order, persists it and
// schedules its automatic transitions. Only presence is checked.
func (l *Lifecycle) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}
	if missing := req.ShippingAddress.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: shipping %s", model.ErrMissingField, strings.Join(missing, ", "))
	}
	if req.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method", model.ErrMissingField)
	}

	userID := req.UserID
	if userID == "" {
		userID = model.GuestUserID
	}

	items := model.CloneCartItems(req.Items)
	rocket := false
	for _, item := range items {
		if item.Rocket {
			rocket = true
			break
		}
	}

	lang := l.language()

	l.mu.Lock()

	now := l.scheduler.Now()
	id, tracking, err := l.uniqueIdentifiers(now)
	if err != nil {
		l.mu.Unlock()
		l.logger.Error().Err(err).Msg("failed to allocate order identifiers")
		return nil, err
	}

	order := &model.Order{
		ID:                id,
		TrackingNumber:    tracking,
		UserID:            userID,
		Items:             items,
		ShippingAddress:   req.ShippingAddress,
		PaymentMethod:     req.PaymentMethod,
		Subtotal:          req.Totals.Subtotal,
		ShippingFee:       req.Totals.ShippingFee,
		Total:             req.Totals.Total,
		Status:            model.OrderStatusConfirmed,
		IsRocket:          rocket,
		EstimatedDelivery: EstimateDelivery(now, rocket),
		CreatedAt:         now,
		UpdatedAt:         now,
		StatusHistory: []model.StatusEntry{
			{Status: model.OrderStatusPending, Timestamp: now, Message: locale.StatusMessage(lang, model.OrderStatusPending)},
			{Status: model.OrderStatusConfirmed, Timestamp: now, Message: locale.StatusMessage(lang, model.OrderStatusConfirmed)},
		},
	}

	l.orders = append([]*model.Order{order}, l.orders...)
	l.byID[order.ID] = order
	l.byTracking[order.TrackingNumber] = order
	l.persist(ctx)

	for _, st := range l.profiles.For(rocket).steps() {
		l.scheduleTransition(order.ID, st.status, st.delay)
	}

	created := order.Clone()
	l.mu.Unlock()

	l.metrics.OrderCreated(rocket)
	l.logger.Info().
		Str("order_id", created.ID).
		Str("tracking_number", created.TrackingNumber).
		Str("user_id", created.UserID).
		Bool("rocket", rocket).
		Int64("total", created.Total).
		Msg("order created")

	l.publish(ctx, created, "", model.OrderStatusConfirmed, created.StatusHistory[1].Message)

	return created, nil
}

// UpdateOrderStatus appends a history entry and moves the order to status.
// It reports false, without mutating anything, when the order is unknown,
// the status is invalid, the order is already delivered or cancelled, or
// status would not move the order forward. Cancelling is always a move forward.
// An empty message is replaced by the localized default.
func (l *Lifecycle) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, message string) bool {
	if !status.IsValid() {
		return false
	}
	if message == "" {
		message = locale.StatusMessage(l.language(), status)
	}

	l.mu.Lock()
	order, ok := l.byID[orderID]
	if !ok || order.Status.IsTerminal() || !movesForward(order.Status, status) {
		current := model.OrderStatus("")
		if ok {
			current = order.Status
		}
		l.mu.Unlock()
		l.logger.Debug().
			Str("order_id", orderID).
			Str("status", string(status)).
			Str("current", string(current)).
			Bool("found", ok).
			Msg("ignoring status update")
		return false
	}

	from := order.Status
	l.apply(order, status, l.scheduler.Now(), message)
	l.persist(ctx)
	snapshot := order.Clone()
	l.mu.Unlock()

	l.publish(ctx, snapshot, from, status, message)
	return true
}

func movesForward(from, to model.OrderStatus) bool {
	return to == model.OrderStatusCancelled || to.Rank() > from.Rank()
}

// CancelOrder moves a non-terminal order to cancelled.
// Already scheduled transitions stay armed and are discarded when they fire.
func (l *Lifecycle) CancelOrder(ctx context.Context, orderID string) bool {
	return l.UpdateOrderStatus(ctx, orderID, model.OrderStatusCancelled, "")
}

// GetOrderByID returns a copy of the order with the given id.
func (l *Lifecycle) GetOrderByID(orderID string) (*model.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.byID[orderID]
	if !ok {
		return nil, false
	}
	return order.Clone(), true
}

// GetOrderByTracking returns a copy of the order with the given tracking number.
func (l *Lifecycle) GetOrderByTracking(trackingNumber string) (*model.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.byTracking[trackingNumber]
	if !ok {
		return nil, false
	}
	return order.Clone(), true
}

// GetUserOrders returns copies of the user's orders, most recent first.
func (l *Lifecycle) GetUserOrders(userID string) []*model.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*model.Order, 0)
	for _, order := range l.orders {
		if order.UserID == userID {
			out = append(out, order.Clone())
		}
	}
	return out
}

// Orders returns copies of every order, most recent first.
func (l *Lifecycle) Orders() []*model.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*model.Order, len(l.orders))
	for i, order := range l.orders {
		out[i] = order.Clone()
	}
	return out
}

// Load restores persisted orders and resumes their schedules. Transitions
// that fell due while the process was down are applied immediately, stamped
// with the time they were due.
func (l *Lifecycle) Load(ctx context.Context) {
	var restored []*model.Order
	if !l.store.Load(ctx, store.KeyOrders, &restored) {
		return
	}

	lang := l.language()
	type applied struct {
		order    *model.Order
		from, to model.OrderStatus
		message  string
	}
	var caughtUp []applied

	l.mu.Lock()

	l.orders = l.orders[:0]
	l.byID = make(map[string]*model.Order, len(restored))
	l.byTracking = make(map[string]*model.Order, len(restored))

	for _, order := range restored {
		if order == nil || order.ID == "" {
			continue
		}
		if _, dup := l.byID[order.ID]; dup {
			l.logger.Warn().Str("order_id", order.ID).Msg("skipping duplicate persisted order")
			continue
		}
		l.orders = append(l.orders, order)
		l.byID[order.ID] = order
		if order.TrackingNumber != "" {
			l.byTracking[order.TrackingNumber] = order
		}
	}

	now := l.scheduler.Now()
	resumed := 0
	for _, order := range l.orders {
		if order.Status.IsTerminal() {
			continue
		}
		resumed++

		for _, st := range l.profiles.For(order.IsRocket).steps() {
			if st.status.Rank() <= order.Status.Rank() {
				continue
			}

			due := order.CreatedAt.Add(st.delay)
			if due.After(now) {
				l.scheduleTransition(order.ID, st.status, due.Sub(now))
				continue
			}

			if last := order.UpdatedAt; due.Before(last) {
				due = last
			}
			from := order.Status
			message := locale.StatusMessage(lang, st.status)
			l.apply(order, st.status, due, message)
			caughtUp = append(caughtUp, applied{order: order.Clone(), from: from, to: st.status, message: message})
		}
	}

	if len(caughtUp) > 0 {
		l.persist(ctx)
	}
	total := len(l.orders)
	l.mu.Unlock()

	l.logger.Info().
		Int("orders", total).
		Int("resumed", resumed).
		Int("caught_up", len(caughtUp)).
		Msg("orders restored")

	for _, a := range caughtUp {
		l.publish(ctx, a.order, a.from, a.to, a.message)
	}
}

// scheduleTransition arms one automatic transition. Caller holds l.mu.
func (l *Lifecycle) scheduleTransition(orderID string, status model.OrderStatus, after time.Duration) {
	l.scheduler.ScheduleAfter(after, func() {
		l.advance(orderID, status)
	})
}

// advance is the timer callback. The order's current status is re-checked
// before applying: terminal orders are left alone and transitions only move forward.
func (l *Lifecycle) advance(orderID string, status model.OrderStatus) {
	ctx := context.Background()
	message := locale.StatusMessage(l.language(), status)

	l.mu.Lock()
	order, ok := l.byID[orderID]
	if !ok || order.Status.IsTerminal() || status.Rank() <= order.Status.Rank() {
		current := model.OrderStatus("")
		if ok {
			current = order.Status
		}
		l.mu.Unlock()

		l.logger.Debug().
			Str("order_id", orderID).
			Str("status", string(status)).
			Str("current", string(current)).
			Msg("skipping scheduled transition")
		return
	}

	from := order.Status
	l.apply(order, status, l.scheduler.Now(), message)
	l.persist(ctx)
	snapshot := order.Clone()
	l.mu.Unlock()

	l.logger.Info().
		Str("order_id", orderID).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("order advanced")

	l.publish(ctx, snapshot, from, status, message)
}

// apply records a transition. Caller holds l.mu.
func (l *Lifecycle) apply(order *model.Order, status model.OrderStatus, at time.Time, message string) {
	order.Status = status
	order.UpdatedAt = at
	order.StatusHistory = append(order.StatusHistory, model.StatusEntry{
		Status:    status,
		Timestamp: at,
		Message:   message,
	})
	l.metrics.StatusTransition(string(status))
}

// uniqueIdentifiers draws identifiers until neither collides with an
// existing order. Caller holds l.mu.
func (l *Lifecycle) uniqueIdentifiers(now time.Time) (string, string, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id := l.ids.OrderID(now)
		tracking := l.ids.TrackingNumber()

		_, idTaken := l.byID[id]
		_, trackingTaken := l.byTracking[tracking]
		if !idTaken && !trackingTaken {
			return id, tracking, nil
		}

		l.logger.Warn().
			Int("attempt", attempt).
			Bool("id_collision", idTaken).
			Bool("tracking_collision", trackingTaken).
			Msg("order identifier collision, regenerating")
	}
	return "", "", model.ErrDuplicateIdentifier
}

// persist writes the order list. Caller holds l.mu.
func (l *Lifecycle) persist(ctx context.Context) {
	l.store.Save(ctx, store.KeyOrders, l.orders)
}

func (l *Lifecycle) publish(ctx context.Context, order *model.Order, from, to model.OrderStatus, message string) {
	if l.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.StatusChanged{
		OrderID:        order.ID,
		TrackingNumber: order.TrackingNumber,
		UserID:         order.UserID,
		From:           from,
		To:             to,
		Message:        message,
		OccurredAt:     order.UpdatedAt,
	}
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.logger.Warn().
			Err(err).
			Str("order_id", order.ID).
			Str("to", string(to)).
			Msg("failed to publish status event")
	}
}
