package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	cartkv "github.com/crafty-aquatics/storefront/internal/domains/cart/adapters/kv"
	cartapp "github.com/crafty-aquatics/storefront/internal/domains/cart/application"
	catalogmemory "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/crafty-aquatics/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	checkoutapp "github.com/crafty-aquatics/storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersmemory "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/memory"
	ordersapp "github.com/crafty-aquatics/storefront/internal/domains/orders/application"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
	checkoutactivities "github.com/crafty-aquatics/storefront/internal/platform/temporal/activities/checkout"
)

type harness struct {
	env     *testsuite.TestWorkflowEnvironment
	catalog *catalogapp.Service
	carts   *cartapp.Service
	product *catalogdomain.Product
}

func newHarness(t *testing.T, ordersRepo ordersports.Repository) harness {
	t.Helper()
	ctx := context.Background()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	product, err := catalog.CreateProduct(ctx, catalogports.CreateProductInput{
		Name: "Aquarium Filter", Price: decimal.NewFromInt(1899), Category: catalogdomain.CategoryEquipment, Stock: 15,
	})
	require.NoError(t, err)
	carts := cartapp.NewService(cartkv.NewRepository(kvstore.NewMemory()), catalog)
	steps := checkoutapp.NewService(carts, catalog, ordersapp.NewService(ordersRepo))

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	Register(env, checkoutactivities.NewActivities(steps))
	return harness{env: env, catalog: catalog, carts: carts, product: product}
}

func (h harness) stock(t *testing.T) int {
	t.Helper()
	p, err := h.catalog.GetProduct(context.Background(), h.product.ID)
	require.NoError(t, err)
	return p.Stock
}

func TestCheckoutWorkflow_PlacesOrder(t *testing.T) {
	h := newHarness(t, ordersmemory.NewRepository())
	_, err := h.carts.AddLine(context.Background(), "u-1", h.product.ID, 2)
	require.NoError(t, err)

	h.env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{
		Command: checkoutports.CheckoutInput{UserID: "u-1", Address: "4 Marine Drive, Mumbai, MH 400002"},
		TraceID: "trace-1",
	})
	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	var order ordersdomain.Order
	require.NoError(t, h.env.GetWorkflowResult(&order))
	assert.Equal(t, ordersdomain.StatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(3798).Equal(order.Total))
	assert.Equal(t, 13, h.stock(t))

	cart, err := h.carts.GetCart(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCheckoutWorkflow_EmptyCartIsNotRetried(t *testing.T) {
	h := newHarness(t, ordersmemory.NewRepository())

	h.env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{
		Command: checkoutports.CheckoutInput{UserID: "u-1", Address: "4 Marine Drive, Mumbai, MH 400002"},
	})
	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	assert.ErrorIs(t, checkoutactivities.DomainError(err), checkoutdomain.ErrEmptyCart)
}

type brokenOrders struct{ ordersports.Repository }

func (brokenOrders) Save(context.Context, *ordersdomain.Order) (*ordersdomain.Order, error) {
	return nil, errors.New("database is read-only")
}

func TestCheckoutWorkflow_ReleasesStockWhenPlacementFails(t *testing.T) {
	h := newHarness(t, brokenOrders{Repository: ordersmemory.NewRepository()})
	_, err := h.carts.AddLine(context.Background(), "u-1", h.product.ID, 3)
	require.NoError(t, err)

	h.env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{
		Command: checkoutports.CheckoutInput{UserID: "u-1", Address: "4 Marine Drive, Mumbai, MH 400002"},
	})
	require.True(t, h.env.IsWorkflowCompleted())
	require.Error(t, h.env.GetWorkflowError())
	assert.Equal(t, 15, h.stock(t))

	cart, err := h.carts.GetCart(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

// lostReplies applies the first call and then reports a failure, as when a worker dies
// before the activity result reaches the server.
type lostReplies struct {
	once sync.Once
}

func (l *lostReplies) fail() error {
	var err error
	l.once.Do(func() { err = errors.New("connection reset after commit") })
	return err
}

type flakyOrders struct {
	ordersports.Repository
	lost *lostReplies
}

func (r flakyOrders) Save(ctx context.Context, order *ordersdomain.Order) (*ordersdomain.Order, error) {
	saved, err := r.Repository.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := r.lost.fail(); err != nil {
		return nil, err
	}
	return saved, nil
}

type flakyStock struct {
	checkoutports.StockReserver
	lost *lostReplies
}

func (s flakyStock) ReserveStock(ctx context.Context, key string, reservations []catalogdomain.StockReservation) ([]*catalogdomain.Product, error) {
	products, err := s.StockReserver.ReserveStock(ctx, key, reservations)
	if err != nil {
		return nil, err
	}
	if err := s.lost.fail(); err != nil {
		return nil, err
	}
	return products, nil
}

func TestCheckoutWorkflow_RetriedActivitiesApplyOnce(t *testing.T) {
	ctx := context.Background()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	product, err := catalog.CreateProduct(ctx, catalogports.CreateProductInput{
		Name: "Aquarium Filter", Price: decimal.NewFromInt(1899), Category: catalogdomain.CategoryEquipment, Stock: 15,
	})
	require.NoError(t, err)
	carts := cartapp.NewService(cartkv.NewRepository(kvstore.NewMemory()), catalog)
	ordersRepo := ordersmemory.NewRepository()
	steps := checkoutapp.NewService(carts,
		flakyStock{StockReserver: catalog, lost: &lostReplies{}},
		ordersapp.NewService(flakyOrders{Repository: ordersRepo, lost: &lostReplies{}}),
	)
	_, err = carts.AddLine(ctx, "u-1", product.ID, 2)
	require.NoError(t, err)

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	Register(env, checkoutactivities.NewActivities(steps))
	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{
		Command: checkoutports.CheckoutInput{UserID: "u-1", Address: "4 Marine Drive, Mumbai, MH 400002"},
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var order ordersdomain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	all, err := ordersRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, order.ID, all[0].ID)

	fetched, err := catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, fetched.Stock)
}

func TestDomainError_PassesThroughUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, checkoutactivities.DomainError(plain))
	assert.NoError(t, checkoutactivities.DomainError(nil))
}
