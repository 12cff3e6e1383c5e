package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
)

// Service exposes cart use cases to adapters. Every mutation returns the cart as persisted.
type Service interface {
	GetCart(ctx context.Context, ownerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, ownerID, productID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, ownerID, productID string) (*domain.Cart, error)
	SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, ownerID string) error
	Subtotal(ctx context.Context, ownerID string) (decimal.Decimal, error)
}

// ProductCatalog is the read-only view of the catalog the cart depends on.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}
