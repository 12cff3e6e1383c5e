package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

const tracerName = "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/observability/orchestrator"

// Orchestrator decorates a checkout orchestrator with tracing, logging, and metrics.
type Orchestrator struct {
	inner     ports.Orchestrator
	tracer    trace.Tracer
	logger    *slog.Logger
	completed metric.Int64Counter
	failed    metric.Int64Counter
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(o *Orchestrator) {
		if m == nil {
			return
		}
		o.completed, _ = m.Int64Counter("checkout.orchestrator.completed", metric.WithDescription("Number of successful checkouts"))
		o.failed, _ = m.Int64Counter("checkout.orchestrator.failed", metric.WithDescription("Number of failed checkouts"))
	}
}

func New(inner ports.Orchestrator, opts ...Option) ports.Orchestrator {
	o := &Orchestrator{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.tracer == nil {
		o.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return o
}

func (o *Orchestrator) Checkout(ctx context.Context, input ports.CheckoutInput) (*ordersdomain.Order, error) {
	ctx, span := o.tracer.Start(ctx, "CheckoutOrchestrator.Checkout", trace.WithAttributes(attribute.String("user.id", input.UserID)))
	defer span.End()

	o.log(ctx, slog.LevelInfo, "checkout started", slog.String("user.id", input.UserID))
	order, err := o.inner.Checkout(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if o.failed != nil {
			o.failed.Add(ctx, 1)
		}
		o.log(ctx, slog.LevelError, "checkout failed", slog.String("user.id", input.UserID), slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	if o.completed != nil {
		o.completed.Add(ctx, 1)
	}
	o.log(ctx, slog.LevelInfo, "checkout completed", slog.String("order.id", order.ID), slog.String("order.total", order.Total.StringFixed(2)))
	return order, nil
}

func (o *Orchestrator) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if o.logger == nil {
		return
	}
	o.logger.LogAttrs(ctx, level, msg, attrs...)
}

var _ ports.Orchestrator = (*Orchestrator)(nil)
