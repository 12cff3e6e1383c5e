package ports

import (
	"context"
	"errors"

	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders. List and ListByUser return orders in insertion order.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}
