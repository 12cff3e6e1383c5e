package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo      ports.Repository
	publisher ports.EventPublisher
	now       func() time.Time
	newID     func() string
}

// Option customises the catalog service.
type Option func(*Service)

// WithEventPublisher sends catalog events to p. Publishing is best effort.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: events.NoopPublisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListProducts returns the catalog, filtered and sorted by query.
func (s *Service) ListProducts(ctx context.Context, query domain.ListQuery) ([]*domain.Product, error) {
	if err := query.Validate(); err != nil {
		return nil, mapError(err)
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(products), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// CreateProduct assigns a fresh id and appends the product to the catalog.
func (s *Service) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(s.newID(), input.Name, input.Description, input.Price, input.Image, input.Category, input.Stock, input.Currency)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.NewProductCreated(saved, s.now()))
	return saved, nil
}

// UpdateProduct replaces the stored product with the same id. Unknown ids write nothing.
func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	candidate := product.Clone()
	candidate.ID = strings.TrimSpace(candidate.ID)
	if candidate.Currency == "" {
		candidate.Currency = domain.DefaultCurrency
	}
	if err := candidate.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, candidate)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.NewProductUpdated(saved, s.now()))
	return saved, nil
}

// DeleteProduct removes a product. Carts and past orders keep their snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	s.publish(ctx, domain.ProductDeleted{BaseEvent: events.NewBaseEvent(s.now()), ProductID: id})
	return nil
}

// BulkAdjustStock sets absolute stock levels; either every update applies or none does.
func (s *Service) BulkAdjustStock(ctx context.Context, updates []domain.StockUpdate) ([]domain.StockChange, error) {
	if len(updates) == 0 {
		return []domain.StockChange{}, nil
	}
	if err := domain.ValidateStockUpdates(updates); err != nil {
		return nil, mapError(err)
	}
	changes, err := s.repo.SetStock(ctx, updates)
	if err != nil {
		return nil, mapError(err)
	}
	s.publishStock(ctx, domain.StockReasonAdjustment, changes)
	return changes, nil
}

// ReserveStock decrements stock for every reservation atomically and returns the
// products as they were priced at reservation time. A repeated call under the same
// non-empty key returns the products without decrementing again.
func (s *Service) ReserveStock(ctx context.Context, key string, reservations []domain.StockReservation) ([]*domain.Product, error) {
	merged, err := domain.MergeReservations(reservations)
	if err != nil {
		return nil, mapError(err)
	}
	if len(merged) == 0 {
		return []*domain.Product{}, nil
	}
	reserved, applied, err := s.repo.Reserve(ctx, key, merged)
	if err != nil {
		return nil, mapError(err)
	}
	if !applied {
		return reserved, nil
	}
	changes := make([]domain.StockChange, 0, len(reserved))
	for i, p := range reserved {
		changes = append(changes, domain.StockChange{ProductID: p.ID, Before: p.Stock + merged[i].Quantity, After: p.Stock})
	}
	s.publishStock(ctx, domain.StockReasonReservation, changes)
	return reserved, nil
}

// ReleaseStock undoes ReserveStock for products that still exist. Under a key it
// returns exactly what that key reserved, at most once.
func (s *Service) ReleaseStock(ctx context.Context, key string, reservations []domain.StockReservation) error {
	merged, err := domain.MergeReservations(reservations)
	if err != nil {
		return mapError(err)
	}
	if len(merged) == 0 {
		return nil
	}
	changes, err := s.repo.Release(ctx, key, merged)
	if err != nil {
		return mapError(err)
	}
	s.publishStock(ctx, domain.StockReasonRelease, changes)
	return nil
}

// LowStock lists products under threshold, lowest stock first.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.LowStock(products, threshold), nil
}

func (s *Service) publishStock(ctx context.Context, reason domain.StockReason, changes []domain.StockChange) {
	if len(changes) == 0 {
		return
	}
	s.publish(ctx, domain.StockAdjusted{BaseEvent: events.NewBaseEvent(s.now()), Reason: reason, Changes: changes})
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	_ = s.publisher.Publish(ctx, event)
}

var _ ports.Service = (*Service)(nil)
