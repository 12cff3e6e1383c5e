package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type sampleEvent struct {
	events.BaseEvent
	ID string `json:"id"`
}

func (sampleEvent) EventName() string     { return "orders.order.placed" }
func (e sampleEvent) AggregateID() string { return e.ID }

func TestPublisher_WritesEnvelope(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewPublisherWithWriter(writer, "")
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	err := pub.Publish(context.Background(), sampleEvent{BaseEvent: events.NewBaseEvent(at), ID: "o-1"})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "storefront.orders", msg.Topic)
	assert.Equal(t, "o-1", string(msg.Key))
	assert.Equal(t, "event", msg.Headers[0].Key)
	assert.Equal(t, "orders.order.placed", string(msg.Headers[0].Value))

	var decoded struct {
		Name    string         `json:"name"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "orders.order.placed", decoded.Name)
	assert.Equal(t, "o-1", decoded.Payload["id"])

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestPublisher_PropagatesWriteErrors(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	pub := NewPublisherWithWriter(writer, "shop")
	err := pub.Publish(context.Background(), sampleEvent{ID: "x"})
	require.ErrorContains(t, err, "broker down")
	assert.Equal(t, "shop.catalog", pub.Topic("catalog.product.created"))
}

func TestNewPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewPublisher([]string{" ", ""}, "", nil)
	require.Error(t, err)
}
