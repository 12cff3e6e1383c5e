package api

import (
	"context"
	"errors"
	"fmt"

	backofficeapp "github.com/crafty-aquatics/storefront/internal/domains/backoffice/application"
	cartkv "github.com/crafty-aquatics/storefront/internal/domains/cart/adapters/kv"
	cartobs "github.com/crafty-aquatics/storefront/internal/domains/cart/adapters/observability"
	cartapp "github.com/crafty-aquatics/storefront/internal/domains/cart/application"
	cartports "github.com/crafty-aquatics/storefront/internal/domains/cart/ports"
	catalogobs "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/crafty-aquatics/storefront/internal/domains/catalog/application"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	checkoutapp "github.com/crafty-aquatics/storefront/internal/domains/checkout/application"
	ordersobs "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/observability"
	ordersapp "github.com/crafty-aquatics/storefront/internal/domains/orders/application"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	usersobs "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/observability"
	userstoken "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/token"
	usersapp "github.com/crafty-aquatics/storefront/internal/domains/users/application"
	usersports "github.com/crafty-aquatics/storefront/internal/domains/users/ports"
	platformobservability "github.com/crafty-aquatics/storefront/internal/platform/observability"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

// Services is every bounded context wired over one Storage.
type Services struct {
	Catalog    catalogports.Service
	Cart       cartports.Service
	Orders     ordersports.Service
	Users      usersports.Service
	Checkout   *checkoutapp.Service
	Backoffice *backofficeapp.Service
}

// BuildServices wires the application services, each behind its observability decorator.
// publisher may be nil.
func BuildServices(cfg Config, storage *Storage, instruments *platformobservability.Instruments, publisher events.Publisher) (*Services, error) {
	if storage == nil {
		return nil, errors.New("storage is required")
	}
	if publisher == nil {
		publisher = events.NoopPublisher
	}
	logger := effectiveLogger(instruments)

	catalog := catalogobs.New(
		catalogapp.NewService(storage.Products, catalogapp.WithEventPublisher(publisher)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	cart := cartobs.New(
		cartapp.NewService(cartkv.NewRepository(storage.Carts), catalog),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	orders := ordersobs.New(
		ordersapp.NewService(storage.Orders, ordersapp.WithEventPublisher(publisher)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	tokens, err := userstoken.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("configure tokens: %w", err)
	}
	users := usersobs.New(
		usersapp.NewService(storage.Users, storage.Sessions, tokens),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	checkout := checkoutapp.NewService(cart, catalog, orders,
		checkoutapp.WithStockReservation(cfg.ReserveStock),
		checkoutapp.WithIdempotencyStore(storage.Idempotency),
		checkoutapp.WithLogger(logger),
	)
	return &Services{
		Catalog:    catalog,
		Cart:       cart,
		Orders:     orders,
		Users:      users,
		Checkout:   checkout,
		Backoffice: backofficeapp.NewService(catalog, orders, users),
	}, nil
}

// Seed inserts the demo catalog and accounts into empty stores.
func (s *Services) Seed(ctx context.Context) error {
	if err := s.Catalog.Seed(ctx); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := s.Users.Seed(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	return nil
}
