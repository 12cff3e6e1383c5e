package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/memory"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

func newTestService(recorder *events.Recorder) *Service {
	seq := 0
	return NewService(memory.NewRepository(),
		WithEventPublisher(recorder),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("o-%d", seq)
		}),
	)
}

func placeInput(userID string) ports.PlaceInput {
	return ports.PlaceInput{
		UserID: userID,
		Lines: []domain.Line{
			{Product: catalogdomain.Product{ID: "p-1", Name: "Neon Tetra", Price: decimal.NewFromInt(225)}, Quantity: 2},
			{Product: catalogdomain.Product{ID: "p-2", Name: "Amazon Sword Plant", Price: decimal.NewFromInt(375)}, Quantity: 1},
		},
		Address: "12 Reef Road, Kochi, Kerala 682001",
	}
}

func TestPlace_ComputesTotalAndPublishes(t *testing.T) {
	recorder := &events.Recorder{}
	svc := newTestService(recorder)
	ctx := context.Background()

	order, err := svc.Place(ctx, placeInput("u-1"))
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(825).Equal(order.Total))
	assert.Equal(t, []string{"orders.order.placed"}, recorder.Names())

	fetched, err := svc.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, order, fetched)

	_, err = svc.GetOrder(ctx, "nope")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPlace_RevalidatesPreconditions(t *testing.T) {
	svc := newTestService(&events.Recorder{})
	ctx := context.Background()

	input := placeInput("u-1")
	input.Lines = nil
	_, err := svc.Place(ctx, input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoLines)

	input = placeInput("u-1")
	input.Address = "  "
	_, err = svc.Place(ctx, input)
	require.ErrorIs(t, err, domain.ErrMissingAddress)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSetStatus(t *testing.T) {
	recorder := &events.Recorder{}
	svc := newTestService(recorder)
	ctx := context.Background()
	order, err := svc.Place(ctx, placeInput("u-1"))
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, order.ID, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	same, err := svc.SetStatus(ctx, order.ID, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, same.Status)

	_, err = svc.SetStatus(ctx, order.ID, domain.StatusPending)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.SetStatus(ctx, "missing", domain.StatusShipped)
	require.ErrorIs(t, err, ports.ErrNotFound)

	assert.Equal(t, []string{"orders.order.placed", "orders.order.status_changed"}, recorder.Names())
}

func TestListByUserAndStats(t *testing.T) {
	svc := newTestService(&events.Recorder{})
	ctx := context.Background()
	for _, user := range []string{"u-1", "u-2", "u-1"} {
		_, err := svc.Place(ctx, placeInput(user))
		require.NoError(t, err)
	}
	_, err := svc.SetStatus(ctx, "o-2", domain.StatusDelivered)
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o-1", mine[0].ID)
	assert.Equal(t, "o-3", mine[1].ID)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.OrderCount)
	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, 2, stats.CustomerCount)
	assert.True(t, decimal.NewFromInt(2475).Equal(stats.Revenue))
}

func TestPlace_WithIDIsIdempotent(t *testing.T) {
	recorder := &events.Recorder{}
	svc := newTestService(recorder)
	ctx := context.Background()

	input := placeInput("u-1")
	input.ID = "checkout-order-1"
	first, err := svc.Place(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "checkout-order-1", first.ID)

	again, err := svc.Place(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, []string{"orders.order.placed"}, recorder.Names())

	input.UserID = "u-2"
	_, err = svc.Place(ctx, input)
	require.ErrorIs(t, err, ErrConflict)
}

// slowReads widens the window between reading an order and saving it.
type slowReads struct {
	ports.Repository
	delay time.Duration
}

func (r slowReads) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := r.Repository.GetByID(ctx, id)
	time.Sleep(r.delay)
	return order, err
}

func TestSetStatus_ConcurrentUpdatesNeverMoveBackwards(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		repo := memory.NewRepository()
		svc := NewService(slowReads{Repository: repo, delay: 20 * time.Millisecond})
		input := placeInput("u-1")
		input.ID = fmt.Sprintf("o-%d", i)
		order, err := svc.Place(ctx, input)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for _, status := range []domain.Status{domain.StatusDelivered, domain.StatusProcessing} {
			wg.Add(1)
			go func(status domain.Status) {
				defer wg.Done()
				_, _ = svc.SetStatus(ctx, order.ID, status)
			}(status)
		}
		wg.Wait()

		final, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, final.Status)
	}
}
