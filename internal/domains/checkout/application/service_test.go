package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartkv "github.com/crafty-aquatics/storefront/internal/domains/cart/adapters/kv"
	cartapp "github.com/crafty-aquatics/storefront/internal/domains/cart/application"
	cartports "github.com/crafty-aquatics/storefront/internal/domains/cart/ports"
	catalogmemory "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/crafty-aquatics/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	checkoutmemory "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/memory"
	"github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersmemory "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/memory"
	ordersapp "github.com/crafty-aquatics/storefront/internal/domains/orders/application"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

const address = "12 Reef Road, Kochi, Kerala 682001"

type fixture struct {
	catalog *catalogapp.Service
	carts   cartports.Service
	orders  *ordersapp.Service
	tetra   *catalogdomain.Product
	sword   *catalogdomain.Product
}

func newFixture(t *testing.T, ordersRepo ordersports.Repository) fixture {
	t.Helper()
	ctx := context.Background()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	tetra, err := catalog.CreateProduct(ctx, catalogports.CreateProductInput{
		Name: "Neon Tetra", Price: decimal.NewFromInt(225), Category: catalogdomain.CategoryFish, Stock: 5,
	})
	require.NoError(t, err)
	sword, err := catalog.CreateProduct(ctx, catalogports.CreateProductInput{
		Name: "Amazon Sword Plant", Price: decimal.NewFromInt(375), Category: catalogdomain.CategoryPlants, Stock: 3,
	})
	require.NoError(t, err)
	if ordersRepo == nil {
		ordersRepo = ordersmemory.NewRepository()
	}
	return fixture{
		catalog: catalog,
		carts:   cartapp.NewService(cartkv.NewRepository(kvstore.NewMemory()), catalog),
		orders:  ordersapp.NewService(ordersRepo),
		tetra:   tetra,
		sword:   sword,
	}
}

func (f fixture) service(opts ...Option) *Service {
	return NewService(f.carts, f.catalog, f.orders, opts...)
}

func (f fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := f.catalog.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestCheckout_ReservesPlacesAndClears(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddLine(ctx, "u-1", f.sword.ID, 1)
	require.NoError(t, err)

	order, err := f.service().Checkout(ctx, ports.CheckoutInput{UserID: "u-1", Address: address})
	require.NoError(t, err)

	assert.Equal(t, ordersdomain.StatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(825).Equal(order.Total))
	assert.Equal(t, address, order.Address)
	assert.Equal(t, 3, f.stockOf(t, f.tetra.ID))
	assert.Equal(t, 2, f.stockOf(t, f.sword.ID))

	cart, err := f.carts.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCheckout_RejectsEmptyAndUnavailableCarts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	svc := f.service()

	_, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: "u-1", Address: address})
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Checkout(ctx, ports.CheckoutInput{UserID: " ", Address: address})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.carts.AddLine(ctx, "u-1", f.tetra.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.catalog.DeleteProduct(ctx, f.tetra.ID))
	_, err = svc.Checkout(ctx, ports.CheckoutInput{UserID: "u-1", Address: address})
	require.ErrorIs(t, err, domain.ErrUnavailableLines)
}

func TestCheckout_InsufficientStockLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddLine(ctx, "u-1", f.sword.ID, 3)
	require.NoError(t, err)
	_, err = f.catalog.BulkAdjustStock(ctx, []catalogdomain.StockUpdate{{ProductID: f.sword.ID, Stock: 2}})
	require.NoError(t, err)

	_, err = f.service().Checkout(ctx, ports.CheckoutInput{UserID: "u-1", Address: address})
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	assert.Equal(t, 5, f.stockOf(t, f.tetra.ID))
	assert.Equal(t, 2, f.stockOf(t, f.sword.ID))
	cart, err := f.carts.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

type failingOrders struct{ ordersports.Repository }

func (failingOrders) Save(context.Context, *ordersdomain.Order) (*ordersdomain.Order, error) {
	return nil, errors.New("orders unavailable")
}

func TestCheckout_ReleasesStockWhenPlacementFails(t *testing.T) {
	f := newFixture(t, failingOrders{Repository: ordersmemory.NewRepository()})
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 4)
	require.NoError(t, err)

	_, err = f.service().Checkout(ctx, ports.CheckoutInput{UserID: "u-1", Address: address})
	require.ErrorContains(t, err, "orders unavailable")

	assert.Equal(t, 5, f.stockOf(t, f.tetra.ID))
	cart, err := f.carts.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestCheckout_MissingAddressIsCompensated(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 2)
	require.NoError(t, err)

	_, err = f.service().Checkout(ctx, ports.CheckoutInput{UserID: "u-1"})
	require.ErrorIs(t, err, ordersdomain.ErrMissingAddress)
	assert.Equal(t, 5, f.stockOf(t, f.tetra.ID))
}

func TestCheckout_WithoutReservationKeepsStock(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 5)
	require.NoError(t, err)
	_, err = f.carts.AddLine(ctx, "u-2", f.tetra.ID, 5)
	require.NoError(t, err)

	svc := f.service(WithStockReservation(false))
	_, err = svc.Checkout(ctx, ports.CheckoutInput{UserID: "u-1", Address: address})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, ports.CheckoutInput{UserID: "u-2", Address: address})
	require.NoError(t, err)

	assert.Equal(t, 5, f.stockOf(t, f.tetra.ID))
}

type unclearableCarts struct{ cartports.Service }

func (unclearableCarts) Clear(context.Context, string) error { return errors.New("cart store down") }

func TestCheckout_ClearFailureKeepsOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 1)
	require.NoError(t, err)

	svc := NewService(unclearableCarts{Service: f.carts}, f.catalog, f.orders)
	order, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: "u-1", Address: address})
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 4, f.stockOf(t, f.tetra.ID))
}

func TestCheckout_ConcurrentBuyersCannotOversell(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	users := []string{"u-1", "u-2", "u-3", "u-4"}
	for _, u := range users {
		_, err := f.carts.AddLine(ctx, u, f.sword.ID, 2)
		require.NoError(t, err)
	}

	svc := f.service()
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, u := range users {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			if _, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: user, Address: address}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.stockOf(t, f.sword.ID))
}

func TestCheckout_RetryWithIdempotencyKeyReturnsSameOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 2)
	require.NoError(t, err)

	svc := f.service(WithIdempotencyStore(checkoutmemory.NewIdempotencyStore()))
	input := ports.CheckoutInput{UserID: "u-1", Address: address, IdempotencyKey: "retry-1"}
	first, err := svc.Checkout(ctx, input)
	require.NoError(t, err)

	again, err := svc.Checkout(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 3, f.stockOf(t, f.tetra.ID))

	input.Address = "99 Coral Street, Kochi, Kerala 682002"
	_, err = svc.Checkout(ctx, input)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	_, err = f.carts.AddLine(ctx, "u-2", f.tetra.ID, 1)
	require.NoError(t, err)
	other, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: "u-2", Address: address, IdempotencyKey: "retry-1"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID, "keys are scoped per user")
}

func TestCheckout_ConcurrentRetriesPlaceOneOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.sword.ID, 2)
	require.NoError(t, err)

	svc := f.service(WithIdempotencyStore(checkoutmemory.NewIdempotencyStore()))
	input := ports.CheckoutInput{UserID: "u-1", Address: address, IdempotencyKey: "double-click"}
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Checkout(ctx, input)
		}()
	}
	wg.Wait()

	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, f.stockOf(t, f.sword.ID))
}

func TestSteps_RepeatedReserveAndPlaceApplyOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, "u-1", f.tetra.ID, 2)
	require.NoError(t, err)

	svc := f.service()
	plan, err := svc.Prepare(ctx, ports.CheckoutInput{UserID: "u-1", Address: address, OrderID: "order-fixed"})
	require.NoError(t, err)
	assert.Equal(t, "order-fixed", plan.OrderID)

	lines, err := svc.Reserve(ctx, plan)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stockOf(t, f.tetra.ID))

	first, err := svc.Place(ctx, plan, lines)
	require.NoError(t, err)
	second, err := svc.Place(ctx, plan, lines)
	require.NoError(t, err)
	assert.Equal(t, "order-fixed", first.ID)
	assert.Equal(t, first.ID, second.ID)
	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Release(ctx, plan))
	require.NoError(t, svc.Release(ctx, plan))
	assert.Equal(t, 5, f.stockOf(t, f.tetra.ID))
}
