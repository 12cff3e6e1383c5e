package ports

import (
	"context"
	"errors"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists the catalog. List returns products in insertion order.
//
// SetStock and Reserve are all-or-nothing: when any entry fails, no product changes.
// Reserve returns products in reservation order carrying the decremented stock.
// Release skips products that no longer exist.
//
// A non-empty key makes Reserve and Release idempotent: Reserve records the key with the
// decrement and a repeated Reserve under a live key returns the products untouched with
// applied=false. Release only returns stock for a live key and forgets it afterwards.
type Repository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	SetStock(ctx context.Context, updates []domain.StockUpdate) ([]domain.StockChange, error)
	Reserve(ctx context.Context, key string, reservations []domain.StockReservation) (reserved []*domain.Product, applied bool, err error)
	Release(ctx context.Context, key string, reservations []domain.StockReservation) ([]domain.StockChange, error)
}
