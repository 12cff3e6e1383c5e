package ports

import (
	"context"

	"github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
)

// Repository persists one cart per owner. Get returns an empty cart for unknown owners.
type Repository interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}
