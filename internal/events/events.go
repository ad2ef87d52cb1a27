// Package events publishes order status changes to downstream consumers.
package events

import (
	"context"
	"time"

	"gofresh/internal/config"
	"gofresh/internal/model"

	"github.com/rs/zerolog"
)

// StatusChanged is emitted whenever an order moves to a new status.
type StatusChanged struct {
	OrderID        string            `json:"orderId"`
	TrackingNumber string            `json:"trackingNumber"`
	UserID         string            `json:"userId"`
	From           model.OrderStatus `json:"from"`
	To             model.OrderStatus `json:"to"`
	Message        string            `json:"message"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

// Publisher delivers status events. Publishing is best-effort: callers log
// errors and carry on.
type Publisher interface {
	Publish(ctx context.Context, event StatusChanged) error
	Close() error
}

// LogPublisher writes events to the application log.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event StatusChanged) error {
	p.logger.Info().
		Str("order_id", event.OrderID).
		Str("tracking_number", event.TrackingNumber).
		Str("from", string(event.From)).
		Str("to", string(event.To)).
		Time("occurred_at", event.OccurredAt).
		Msg("order status changed")
	return nil
}

// Close does nothing.
func (p *LogPublisher) Close() error {
	return nil
}

// New returns a Kafka publisher when brokers are configured and a log
// publisher otherwise.
func New(cfg config.EventsConfig, logger zerolog.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		return NewLogPublisher(logger)
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}
