package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	checkoutactivities "github.com/crafty-aquatics/storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/crafty-aquatics/storefront/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.Orchestrator = (*TemporalCheckout)(nil)
	_ ports.Orchestrator = (*InlineCheckout)(nil)
)

// TemporalCheckout starts checkout workflows on a Temporal cluster and waits for the order.
type TemporalCheckout struct {
	client    client.Client
	taskQueue string
}

func NewTemporalCheckout(c client.Client) *TemporalCheckout {
	return &TemporalCheckout{client: c, taskQueue: checkoutworkflows.CheckoutTaskQueue}
}

// Checkout runs the checkout workflow and maps business failures back to their sentinels.
func (o *TemporalCheckout) Checkout(ctx context.Context, input ports.CheckoutInput) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildCheckoutWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	if strings.TrimSpace(input.IdempotencyKey) != "" {
		// One run per key; a repeat returns the earlier run instead of starting a new one.
		options.WorkflowIDReusePolicy = enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.CheckoutWorkflowName,
		checkoutworkflows.CheckoutWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		// A retried request with the same key or trace attaches to the existing run.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var order ordersdomain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, checkoutactivities.DomainError(err)
	}
	return &order, nil
}

// InlineCheckout runs the sequence in-process, for tests and when Temporal is unavailable.
type InlineCheckout struct {
	orchestrator ports.Orchestrator
}

func NewInlineCheckout(o ports.Orchestrator) *InlineCheckout {
	return &InlineCheckout{orchestrator: o}
}

func (o *InlineCheckout) Checkout(ctx context.Context, input ports.CheckoutInput) (*ordersdomain.Order, error) {
	if o == nil || o.orchestrator == nil {
		return nil, errors.New("inline checkout not configured")
	}
	return o.orchestrator.Checkout(ctx, input)
}

func buildCheckoutWorkflowID(input ports.CheckoutInput, traceComponent string) string {
	user := strings.TrimSpace(input.UserID)
	if user == "" {
		user = "anonymous"
	}
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("checkout-idem-%s-%s", user, hashIdempotencyKey(key))
	}
	return fmt.Sprintf("checkout-%s-%s", user, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
