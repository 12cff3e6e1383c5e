package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/memory"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("broker unavailable")
}

func newTestService(opts ...Option) *Service {
	seq := 0
	base := []Option{
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("p-%d", seq)
		}),
	}
	return NewService(memory.NewRepository(), append(base, opts...)...)
}

func tetra() ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:     "Neon Tetra",
		Price:    decimal.NewFromInt(225),
		Category: domain.CategoryFish,
		Stock:    50,
	}
}

func TestCreateProduct_RoundTrip(t *testing.T) {
	recorder := &events.Recorder{}
	svc := newTestService(WithEventPublisher(recorder))
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, tetra())
	require.NoError(t, err)
	assert.Equal(t, "p-1", created.ID)

	fetched, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
	assert.Equal(t, []string{"catalog.product.created"}, recorder.Names())

	dup, err := svc.CreateProduct(ctx, tetra())
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, dup.ID)
}

func TestCreateProduct_RejectsInvalidInput(t *testing.T) {
	svc := newTestService()
	input := tetra()
	input.Price = decimal.NewFromInt(-1)

	_, err := svc.CreateProduct(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestUpdateProduct_UnknownIDLeavesCatalogUnchanged(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, tetra())
	require.NoError(t, err)

	ghost := created.Clone()
	ghost.ID = "ghost"
	_, err = svc.UpdateProduct(ctx, ghost)
	require.ErrorIs(t, err, ports.ErrNotFound)

	list, err := svc.ListProducts(ctx, domain.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])

	created.Price = decimal.NewFromInt(250)
	updated, err := svc.UpdateProduct(ctx, created)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(updated.Price))
}

func TestDeleteProduct(t *testing.T) {
	recorder := &events.Recorder{}
	svc := newTestService(WithEventPublisher(recorder))
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, tetra())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	require.ErrorIs(t, svc.DeleteProduct(ctx, created.ID), ports.ErrNotFound)
	assert.Equal(t, []string{"catalog.product.created", "catalog.product.deleted"}, recorder.Names())
}

func TestBulkAdjustStock_AllOrNothing(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, tetra())
	require.NoError(t, err)

	_, err = svc.BulkAdjustStock(ctx, []domain.StockUpdate{{ProductID: created.ID, Stock: 10}, {ProductID: "missing", Stock: 3}})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.BulkAdjustStock(ctx, []domain.StockUpdate{{ProductID: created.ID, Stock: -1}})
	require.ErrorIs(t, err, ErrInvalidInput)

	fetched, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, fetched.Stock)

	changes, err := svc.BulkAdjustStock(ctx, []domain.StockUpdate{{ProductID: created.ID, Stock: 7}})
	require.NoError(t, err)
	assert.Equal(t, []domain.StockChange{{ProductID: created.ID, Before: 50, After: 7}}, changes)
}

func TestReserveAndReleaseStock(t *testing.T) {
	recorder := &events.Recorder{}
	svc := newTestService(WithEventPublisher(recorder))
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, tetra())
	require.NoError(t, err)

	_, err = svc.ReserveStock(ctx, "", []domain.StockReservation{{ProductID: created.ID, Quantity: 51}})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	reserved, err := svc.ReserveStock(ctx, "", []domain.StockReservation{
		{ProductID: created.ID, Quantity: 20},
		{ProductID: created.ID, Quantity: 10},
	})
	require.NoError(t, err)
	require.Len(t, reserved, 1)
	assert.Equal(t, 20, reserved[0].Stock)

	require.NoError(t, svc.ReleaseStock(ctx, "", []domain.StockReservation{{ProductID: created.ID, Quantity: 30}}))
	fetched, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, fetched.Stock)

	last := recorder.Events[len(recorder.Events)-1].(domain.StockAdjusted)
	assert.Equal(t, domain.StockReasonRelease, last.Reason)
}

func TestReserveStock_KeyedRetryDecrementsOnce(t *testing.T) {
	recorder := &events.Recorder{}
	svc := newTestService(WithEventPublisher(recorder))
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, tetra())
	require.NoError(t, err)
	lines := []domain.StockReservation{{ProductID: created.ID, Quantity: 5}}

	first, err := svc.ReserveStock(ctx, "order-1", lines)
	require.NoError(t, err)
	retried, err := svc.ReserveStock(ctx, "order-1", lines)
	require.NoError(t, err)
	assert.Equal(t, first[0].Stock, retried[0].Stock)

	fetched, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, fetched.Stock)
	published := len(recorder.Events)

	require.NoError(t, svc.ReleaseStock(ctx, "order-1", lines))
	require.NoError(t, svc.ReleaseStock(ctx, "order-1", lines))
	fetched, err = svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, fetched.Stock)
	assert.Len(t, recorder.Events, published+1, "only the first release moves stock")
}

func TestListProducts_FiltersAndSorts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))

	byPrice, err := svc.ListProducts(ctx, domain.ListQuery{Sort: domain.SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, byPrice, 4)
	assert.Equal(t, "Aquarium Filter", byPrice[0].Name)

	plants, err := svc.ListProducts(ctx, domain.ListQuery{Category: domain.CategoryPlants})
	require.NoError(t, err)
	require.Len(t, plants, 1)
	assert.Equal(t, "Amazon Sword Plant", plants[0].Name)

	_, err = svc.ListProducts(ctx, domain.ListQuery{Sort: "popular"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))

	list, err := svc.ListProducts(ctx, domain.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Neon Tetra", list[0].Name)
	assert.Equal(t, "Decorative Castle", list[3].Name)

	low, err := svc.LowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Decorative Castle", low[0].Name)
	assert.Equal(t, "Aquarium Filter", low[1].Name)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	svc := newTestService(WithEventPublisher(failingPublisher{}))
	_, err := svc.CreateProduct(context.Background(), tetra())
	require.NoError(t, err)
}
