// Package kafka publishes domain events to Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

// DefaultTopicPrefix namespaces storefront topics.
const DefaultTopicPrefix = "storefront"

var _ events.Publisher = (*Publisher)(nil)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes every event as a JSON envelope to "<prefix>.<context>", keyed by aggregate id.
type Publisher struct {
	writer MessageWriter
	prefix string
}

type envelope struct {
	Name       string       `json:"name"`
	OccurredAt time.Time    `json:"occurredAt"`
	Payload    events.Event `json:"payload"`
}

// NewPublisher builds an async writer for brokers. Delivery failures are logged, never returned.
func NewPublisher(brokers []string, prefix string, logger *slog.Logger) (*Publisher, error) {
	brokers = cleanBrokers(brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("kafka delivery failed", slog.Int("messages", len(messages)), slog.String("error", err.Error()))
			}
		},
	}
	return NewPublisherWithWriter(writer, prefix), nil
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(writer MessageWriter, prefix string) *Publisher {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultTopicPrefix
	}
	return &Publisher{writer: writer, prefix: prefix}
}

// Publish enqueues the event.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	if event == nil {
		return nil
	}
	value, err := json.Marshal(envelope{Name: event.EventName(), OccurredAt: event.OccurredAt(), Payload: event})
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", event.EventName(), err)
	}
	msg := kafka.Message{
		Topic: p.Topic(event.EventName()),
		Key:   []byte(event.AggregateID()),
		Value: value,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.EventName())},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", event.EventName(), err)
	}
	return nil
}

// Topic maps "catalog.product.created" to "<prefix>.catalog".
func (p *Publisher) Topic(eventName string) string {
	boundedContext := eventName
	if idx := strings.Index(eventName, "."); idx > 0 {
		boundedContext = eventName[:idx]
	}
	return p.prefix + "." + boundedContext
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func cleanBrokers(brokers []string) []string {
	out := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
