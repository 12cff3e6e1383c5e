package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

// CreateProductInput carries admin-supplied product data; the id is assigned by the service.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    domain.Category
	Stock       int
	Currency    string
}

// Service exposes catalog use cases to adapters.
type Service interface {
	ListProducts(ctx context.Context, query domain.ListQuery) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	BulkAdjustStock(ctx context.Context, updates []domain.StockUpdate) ([]domain.StockChange, error)
	ReserveStock(ctx context.Context, key string, reservations []domain.StockReservation) ([]*domain.Product, error)
	ReleaseStock(ctx context.Context, key string, reservations []domain.StockReservation) error
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	Seed(ctx context.Context) error
}

// EventPublisher emits catalog events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
