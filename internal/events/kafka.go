package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by order ID so that one
// order's events stay in a single partition.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	logger = logger.With().Str("component", "events").Str("topic", topic).Logger()
	logger.Info().Strs("brokers", brokers).Msg("publishing order events to kafka")

	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}, logger)
}

func newKafkaPublisher(w messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		logger: logger,
	}
}

// Publish writes one event.
func (p *KafkaPublisher) Publish(ctx context.Context, event StatusChanged) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt.UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug().
		Str("order_id", event.OrderID).
		Str("to", string(event.To)).
		Msg("order event published")
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
