// Package events publishes domain events to Kafka. When no brokers are
// configured, a no-op publisher is used instead.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JaimeStill/footprint/pkg/lifecycle"
)

// Event types emitted by the service.
const (
	TypeDocumentStatus = "document.status"
	TypeJobCompleted   = "job.completed"
)

// Event is a single published message. Key determines the partition, so all
// events for one document or job stay ordered.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends events and participates in lifecycle shutdown.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Start(lc *lifecycle.Coordinator) error
}

// New returns a Kafka publisher when brokers are configured, otherwise a no-op.
func New(cfg *Config, logger *slog.Logger) Publisher {
	logger = logger.With("system", "events")

	if !cfg.Enabled() {
		return noop{}
	}

	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: cfg.BatchTimeoutDuration(),
		},
		logger: logger,
	}
}

// Encode marshals e into a Kafka message, stamping OccurredAt when unset.
func Encode(e Event) (kafka.Message, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event %s: %w", e.Type, err)
	}

	return kafka.Message{
		Key:   []byte(e.Key),
		Value: value,
		Time:  e.OccurredAt,
	}, nil
}

type kafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func (p *kafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := Encode(e)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	return nil
}

func (p *kafkaPublisher) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting event publisher", "topic", p.writer.Topic)

	lc.OnShutdown(func() {
		<-lc.Drained()
		p.logger.Info("closing event publisher")

		if err := p.writer.Close(); err != nil {
			p.logger.Error("event publisher close failed", "error", err)
		}
	})

	return nil
}

type noop struct{}

func (noop) Publish(context.Context, Event) error { return nil }

func (noop) Start(*lifecycle.Coordinator) error { return nil }
