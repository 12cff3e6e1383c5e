package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/crafty-aquatics/storefront/internal/domains/backoffice/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/backoffice/ports"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

// ErrInvalidInput signals an unusable filter.
var ErrInvalidInput = errors.New("invalid backoffice query")

// Service aggregates the other stores for the admin pages. It never writes.
type Service struct {
	products          ports.ProductReader
	orders            ports.OrderReader
	users             ports.UserReader
	lowStockThreshold int
}

func NewService(products ports.ProductReader, orders ports.OrderReader, users ports.UserReader) *Service {
	return &Service{
		products:          products,
		orders:            orders,
		users:             users,
		lowStockThreshold: catalogdomain.DefaultLowStockThreshold,
	}
}

func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	products, err := s.products.ListProducts(ctx, catalogdomain.ListQuery{})
	if err != nil {
		return domain.Dashboard{}, err
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return domain.BuildDashboard(products, orders, s.lowStockThreshold), nil
}

func (s *Service) Customers(ctx context.Context, search string) ([]domain.Customer, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildCustomers(users, orders, search), nil
}

func (s *Service) Orders(ctx context.Context, status, search string) ([]*ordersdomain.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := domain.FilterOrders(orders, status, search)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return filtered, nil
}

var _ ports.Service = (*Service)(nil)
