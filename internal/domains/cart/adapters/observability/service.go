package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
	cartports "github.com/crafty-aquatics/storefront/internal/domains/cart/ports"
)

const tracerName = "github.com/crafty-aquatics/storefront/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) GetCart(ctx context.Context, ownerID string) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.GetCart", trace.WithAttributes(attribute.String("cart.owner", ownerID)))
	defer span.End()

	result, err := s.inner.GetCart(ctx, ownerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load cart", slog.String("cart.owner", ownerID))
	}
	span.SetAttributes(attribute.Int("cart.lines", len(result.Lines)))
	return result, nil
}

func (s *Service) AddLine(ctx context.Context, ownerID, productID string, quantity int) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddLine", trace.WithAttributes(
		attribute.String("cart.owner", ownerID),
		attribute.String("product.id", productID),
		attribute.Int("cart.quantity", quantity),
	))
	defer span.End()

	s.logInfo(ctx, "adding cart line", slog.String("cart.owner", ownerID), slog.String("product.id", productID), slog.Int("quantity", quantity))
	result, err := s.inner.AddLine(ctx, ownerID, productID, quantity)
	if err != nil {
		s.metrics.recordRejected(ctx, "add")
		return nil, s.handleError(ctx, span, err, "failed to add cart line", slog.String("cart.owner", ownerID), slog.String("product.id", productID))
	}
	s.metrics.recordAdded(ctx)
	return result, nil
}

func (s *Service) RemoveLine(ctx context.Context, ownerID, productID string) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveLine", trace.WithAttributes(
		attribute.String("cart.owner", ownerID),
		attribute.String("product.id", productID),
	))
	defer span.End()

	s.logInfo(ctx, "removing cart line", slog.String("cart.owner", ownerID), slog.String("product.id", productID))
	result, err := s.inner.RemoveLine(ctx, ownerID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove cart line", slog.String("cart.owner", ownerID))
	}
	return result, nil
}

func (s *Service) SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.SetQuantity", trace.WithAttributes(
		attribute.String("cart.owner", ownerID),
		attribute.String("product.id", productID),
		attribute.Int("cart.quantity", quantity),
	))
	defer span.End()

	s.logInfo(ctx, "setting cart quantity", slog.String("cart.owner", ownerID), slog.String("product.id", productID), slog.Int("quantity", quantity))
	result, err := s.inner.SetQuantity(ctx, ownerID, productID, quantity)
	if err != nil {
		s.metrics.recordRejected(ctx, "set_quantity")
		return nil, s.handleError(ctx, span, err, "failed to set cart quantity", slog.String("cart.owner", ownerID), slog.String("product.id", productID))
	}
	return result, nil
}

func (s *Service) Clear(ctx context.Context, ownerID string) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear", trace.WithAttributes(attribute.String("cart.owner", ownerID)))
	defer span.End()

	s.logInfo(ctx, "clearing cart", slog.String("cart.owner", ownerID))
	if err := s.inner.Clear(ctx, ownerID); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", slog.String("cart.owner", ownerID))
	}
	return nil
}

func (s *Service) Subtotal(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Subtotal", trace.WithAttributes(attribute.String("cart.owner", ownerID)))
	defer span.End()

	result, err := s.inner.Subtotal(ctx, ownerID)
	if err != nil {
		return decimal.Zero, s.handleError(ctx, span, err, "failed to compute subtotal", slog.String("cart.owner", ownerID))
	}
	span.SetAttributes(attribute.String("cart.subtotal", result.String()))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	linesAdded    metric.Int64Counter
	linesRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	added, _ := m.Int64Counter("cart.service.lines_added", metric.WithDescription("Number of successful add-to-cart calls"))
	rejected, _ := m.Int64Counter("cart.service.lines_rejected", metric.WithDescription("Number of cart mutations rejected"))
	return serviceMetrics{linesAdded: added, linesRejected: rejected}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.linesAdded != nil {
		m.linesAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, op string) {
	if m.linesRejected != nil {
		m.linesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op)))
	}
}

var _ cartports.Service = (*Service)(nil)
