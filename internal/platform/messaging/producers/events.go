package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/treasury-dashboard/internal/config"
)

// EventTypeHeader carries the event type of every message on the events topic
const EventTypeHeader = "event-type"

// EventProducer writes treasury events to the events topic
type EventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewEventProducer ensures the events topic exists and creates a synchronous writer for it.
// Messages with the same key land on the same partition.
func NewEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*EventProducer, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("kafka events topic is not configured")
	}

	if err := EnsureTopic(ctx, logger, cfg, cfg.EventsTopic); err != nil {
		return nil, fmt.Errorf("failed to ensure events topic %s exists: %w", cfg.EventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.MaxWait,
	}

	return &EventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EventsTopic,
	}, nil
}

// Publish marshals value to JSON and writes it under key
func (p *EventProducer) Publish(ctx context.Context, key, eventType string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
		Headers: []kafka.Header{
			{Key: EventTypeHeader, Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			"topic", p.topic,
			"key", key,
			"event_type", eventType,
			"error", err,
		)
		return fmt.Errorf("failed to publish %s event to %s: %w", eventType, p.topic, err)
	}

	p.logger.Debug("Published event",
		"topic", p.topic,
		"key", key,
		"event_type", eventType,
	)
	return nil
}

func (p *EventProducer) Close() error {
	p.logger.Info("Closing event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close events kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
