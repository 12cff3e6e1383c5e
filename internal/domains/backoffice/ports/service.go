package ports

import (
	"context"

	"github.com/crafty-aquatics/storefront/internal/domains/backoffice/domain"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	usersdomain "github.com/crafty-aquatics/storefront/internal/domains/users/domain"
)

// Service exposes the read-only admin views.
type Service interface {
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	Customers(ctx context.Context, search string) ([]domain.Customer, error)
	Orders(ctx context.Context, status, search string) ([]*ordersdomain.Order, error)
}

// ProductReader is the catalog view the backoffice reads.
type ProductReader interface {
	ListProducts(ctx context.Context, query catalogdomain.ListQuery) ([]*catalogdomain.Product, error)
}

// OrderReader is the order view the backoffice reads.
type OrderReader interface {
	ListAll(ctx context.Context) ([]*ordersdomain.Order, error)
}

// UserReader is the account view the backoffice reads.
type UserReader interface {
	ListUsers(ctx context.Context) ([]*usersdomain.User, error)
}
