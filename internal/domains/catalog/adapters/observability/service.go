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

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

const tracerName = "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) ListProducts(ctx context.Context, query catalogdomain.ListQuery) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts", trace.WithAttributes(
		attribute.String("catalog.category", string(query.Category)),
		attribute.String("catalog.sort", string(query.Sort)),
	))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("catalog.products.count", len(result)))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, input catalogports.CreateProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct", trace.WithAttributes(attribute.String("product.category", string(input.Category))))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.name", input.Name))
	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", input.Name))
	}
	s.metrics.recordCreated(ctx, result.Category)
	s.logInfo(ctx, "product created", slog.String("product.id", result.ID))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	id := ""
	if product != nil {
		id = product.ID
	}
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.String("product.id", id))
	result, err := s.inner.UpdateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.String("product.id", result.ID))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.String("product.id", id))
	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.String("product.id", id))
	return nil
}

func (s *Service) BulkAdjustStock(ctx context.Context, updates []catalogdomain.StockUpdate) ([]catalogdomain.StockChange, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.BulkAdjustStock", trace.WithAttributes(attribute.Int("stock.updates", len(updates))))
	defer span.End()

	s.logInfo(ctx, "adjusting stock", slog.Int("stock.updates", len(updates)))
	result, err := s.inner.BulkAdjustStock(ctx, updates)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to adjust stock", slog.Int("stock.updates", len(updates)))
	}
	s.metrics.recordStock(ctx, catalogdomain.StockReasonAdjustment, len(result))
	s.logInfo(ctx, "stock adjusted", slog.Int("stock.changed", len(result)))
	return result, nil
}

func (s *Service) ReserveStock(ctx context.Context, key string, reservations []catalogdomain.StockReservation) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ReserveStock", trace.WithAttributes(
		attribute.Int("stock.lines", len(reservations)),
		attribute.String("stock.reservation_key", key),
	))
	defer span.End()

	s.logInfo(ctx, "reserving stock", slog.Int("stock.lines", len(reservations)))
	result, err := s.inner.ReserveStock(ctx, key, reservations)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reserve stock", slog.Int("stock.lines", len(reservations)))
	}
	s.metrics.recordStock(ctx, catalogdomain.StockReasonReservation, len(result))
	return result, nil
}

func (s *Service) ReleaseStock(ctx context.Context, key string, reservations []catalogdomain.StockReservation) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ReleaseStock", trace.WithAttributes(
		attribute.Int("stock.lines", len(reservations)),
		attribute.String("stock.reservation_key", key),
	))
	defer span.End()

	s.logInfo(ctx, "releasing stock", slog.Int("stock.lines", len(reservations)))
	if err := s.inner.ReleaseStock(ctx, key, reservations); err != nil {
		return s.handleError(ctx, span, err, "failed to release stock", slog.Int("stock.lines", len(reservations)))
	}
	s.metrics.recordStock(ctx, catalogdomain.StockReasonRelease, len(reservations))
	return nil
}

func (s *Service) LowStock(ctx context.Context, threshold int) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.LowStock", trace.WithAttributes(attribute.Int("stock.threshold", threshold)))
	defer span.End()

	result, err := s.inner.LowStock(ctx, threshold)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list low stock")
	}
	span.SetAttributes(attribute.Int("catalog.products.count", len(result)))
	return result, nil
}

func (s *Service) Seed(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Seed")
	defer span.End()

	if err := s.inner.Seed(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to seed catalog")
	}
	s.logInfo(ctx, "catalog seeded")
	return nil
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
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
	stockMovements  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products deleted"))
	movements, _ := m.Int64Counter("catalog.service.stock_movements", metric.WithDescription("Number of product stock levels changed"))
	return serviceMetrics{productsCreated: created, productsDeleted: deleted, stockMovements: movements}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category catalogdomain.Category) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", string(category))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStock(ctx context.Context, reason catalogdomain.StockReason, n int) {
	if m.stockMovements != nil && n > 0 {
		m.stockMovements.Add(ctx, int64(n), metric.WithAttributes(attribute.String("stock.reason", string(reason))))
	}
}

var _ catalogports.Service = (*Service)(nil)
