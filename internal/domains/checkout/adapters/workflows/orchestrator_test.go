package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

type stubOrchestrator struct {
	got ports.CheckoutInput
}

func (s *stubOrchestrator) Checkout(_ context.Context, input ports.CheckoutInput) (*ordersdomain.Order, error) {
	s.got = input
	return &ordersdomain.Order{ID: "o-1", UserID: input.UserID}, nil
}

func TestInlineCheckout_Delegates(t *testing.T) {
	stub := &stubOrchestrator{}
	order, err := NewInlineCheckout(stub).Checkout(context.Background(), ports.CheckoutInput{UserID: "u-1", Address: "addr"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.ID)
	assert.Equal(t, "addr", stub.got.Address)

	_, err = NewInlineCheckout(nil).Checkout(context.Background(), ports.CheckoutInput{})
	require.Error(t, err)
}

func TestTemporalCheckout_RequiresClient(t *testing.T) {
	_, err := NewTemporalCheckout(nil).Checkout(context.Background(), ports.CheckoutInput{UserID: "u-1"})
	require.Error(t, err)
}

func TestBuildCheckoutWorkflowID(t *testing.T) {
	traceID, err := oteltrace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := oteltrace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := oteltrace.ContextWithSpanContext(context.Background(), oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	id := buildCheckoutWorkflowID(ports.CheckoutInput{UserID: "u-1"}, workflowTraceComponent(ctx))
	assert.Equal(t, "checkout-u-1-4bf92f3577b34da6a3ce929d0e0e4736", id)

	fallback := buildCheckoutWorkflowID(ports.CheckoutInput{UserID: " "}, workflowTraceComponent(context.Background()))
	assert.True(t, strings.HasPrefix(fallback, "checkout-anonymous-fallback-"))
}

func TestBuildCheckoutWorkflowID_IdempotencyKeyIgnoresTrace(t *testing.T) {
	input := ports.CheckoutInput{UserID: "u-1", IdempotencyKey: "retry-1"}
	first := buildCheckoutWorkflowID(input, "trace-a")
	second := buildCheckoutWorkflowID(input, "trace-b")
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "checkout-idem-u-1-"))
	assert.Len(t, strings.TrimPrefix(first, "checkout-idem-u-1-"), 16)

	other := buildCheckoutWorkflowID(ports.CheckoutInput{UserID: "u-2", IdempotencyKey: "retry-1"}, "trace-a")
	assert.NotEqual(t, first, other)
}
