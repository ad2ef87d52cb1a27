package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"gofresh/internal/locale"
	"gofresh/internal/metrics"
	"gofresh/internal/model"
	"gofresh/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notificationNamespace scopes the name-based notification ids.
var notificationNamespace = uuid.MustParse("6f1c8a52-3d0e-4b8f-9a57-0c1e2d3f4a5b")

// notificationService implements NotificationService.
type notificationService struct {
	mu   sync.Mutex
	read map[string]bool

	orders   OrderHistory
	session  Session
	language LanguageSource
	store    *store.BestEffort
	logger   zerolog.Logger
}

// NewNotificationService creates a notification service. Call Load to
// restore which notifications were already read.
func NewNotificationService(
	orders OrderHistory,
	session Session,
	language LanguageSource,
	s store.Store,
	m *metrics.Metrics,
	logger zerolog.Logger,
) NotificationService {
	logger = logger.With().Str("service", "notification").Logger()
	return &notificationService{
		read:     make(map[string]bool),
		orders:   orders,
		session:  session,
		language: language,
		store:    store.NewBestEffort(s, m, logger),
		logger:   logger,
	}
}

// Load restores the read notification ids.
func (s *notificationService) Load(ctx context.Context) {
	var ids []string
	if !s.store.Load(ctx, store.KeyNotificationsRead, &ids) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.read[id] = true
	}
	s.logger.Debug().Int("read_count", len(ids)).Msg("notification state restored")
}

// List returns one notification per status change of the current user's
// orders, newest first. The pending entry is folded into the confirmation.
func (s *notificationService) List(_ context.Context) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.build()
}

// MarkRead marks one notification as read.
func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, n := range s.build() {
		if n.ID == id {
			found = true
			break
		}
	}
	if !found {
		s.logger.Debug().Str("notification_id", id).Msg("notification not found")
		return model.ErrNotificationNotFound
	}

	if s.read[id] {
		return nil
	}
	s.read[id] = true
	s.persist(ctx)
	return nil
}

// MarkAllRead marks every current notification as read.
func (s *notificationService) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, n := range s.build() {
		if !n.Read {
			s.read[n.ID] = true
			changed++
		}
	}
	if changed > 0 {
		s.persist(ctx)
	}
	s.logger.Debug().Int("marked", changed).Msg("marked all notifications read")
}

// UnreadCount returns the number of unread notifications.
func (s *notificationService) UnreadCount(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.build() {
		if !n.Read {
			count++
		}
	}
	return count
}

// build synthesises the notification list. Caller holds s.mu.
func (s *notificationService) build() []model.Notification {
	lang := s.language.Get()
	orders := s.orders.GetUserOrders(s.session.CurrentUserID())

	var out []model.Notification
	for _, o := range orders {
		for i, entry := range o.StatusHistory {
			if entry.Status == model.OrderStatusPending {
				continue
			}
			id := notificationID(o.ID, i)
			out = append(out, model.Notification{
				ID:        id,
				OrderID:   o.ID,
				Status:    entry.Status,
				Title:     locale.StatusTitle(lang, entry.Status),
				Message:   entry.Message,
				Timestamp: entry.Timestamp,
				Read:      s.read[id],
			})
		}
	}

	// Orders arrive newest first and history oldest first; a stable sort
	// keeps same-instant entries of one order in reverse history order.
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b model.Notification) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if out == nil {
		out = []model.Notification{}
	}
	return out
}

// persist saves the read ids. Caller holds s.mu.
func (s *notificationService) persist(ctx context.Context) {
	ids := make([]string, 0, len(s.read))
	for id := range s.read {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	s.store.Save(ctx, store.KeyNotificationsRead, ids)
}

// notificationID is stable for a given history entry of an order.
func notificationID(orderID string, index int) string {
	return uuid.NewSHA1(notificationNamespace, []byte(fmt.Sprintf("%s/%d", orderID, index))).String()
}
