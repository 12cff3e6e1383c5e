// Package repositorytest holds the behaviour every order repository must share.
package repositorytest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
)

// Run exercises repo against the order repository contract. build must return an empty repository.
func Run(t *testing.T, build func(t *testing.T) ports.Repository) {
	t.Helper()

	t.Run("save and get keep the snapshot", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		order := newOrder(t, "o-1", "u-1")

		_, err := repo.Save(ctx, order)
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, "o-1")
		require.NoError(t, err)
		assert.Equal(t, "u-1", fetched.UserID)
		assert.Equal(t, domain.StatusPending, fetched.Status)
		assert.Equal(t, domain.PaymentCashOnDelivery, fetched.PaymentMethod)
		assert.True(t, decimal.NewFromInt(825).Equal(fetched.Total), fetched.Total.String())
		require.Len(t, fetched.Lines, 2)
		assert.Equal(t, "Neon Tetra", fetched.Lines[0].Product.Name)
		assert.True(t, decimal.NewFromInt(225).Equal(fetched.Lines[0].Product.Price))
		assert.Equal(t, 2, fetched.Lines[0].Quantity)
		assert.WithinDuration(t, order.CreatedAt, fetched.CreatedAt, time.Second)

		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("status updates keep position", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		first := newOrder(t, "o-1", "u-1")
		_, err := repo.Save(ctx, first)
		require.NoError(t, err)
		_, err = repo.Save(ctx, newOrder(t, "o-2", "u-1"))
		require.NoError(t, err)

		_, err = first.UpdateStatus(domain.StatusShipped)
		require.NoError(t, err)
		saved, err := repo.Save(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipped, saved.Status)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "o-1", list[0].ID)
		assert.Equal(t, domain.StatusShipped, list[0].Status)
	})

	t.Run("list by user keeps insertion order across users", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		users := []string{"u-1", "u-2", "u-1", "u-3", "u-1", "u-2"}
		for i, user := range users {
			_, err := repo.Save(ctx, newOrder(t, fmt.Sprintf("o-%d", i), user))
			require.NoError(t, err)
		}

		mine, err := repo.ListByUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"o-0", "o-2", "o-4"}, ids(mine))

		theirs, err := repo.ListByUser(ctx, "u-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"o-1", "o-5"}, ids(theirs))

		none, err := repo.ListByUser(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(users))
	})
}

func newOrder(t *testing.T, id, userID string) *domain.Order {
	t.Helper()
	lines := []domain.Line{
		{Product: catalogdomain.Product{ID: "p-1", Name: "Neon Tetra", Price: decimal.NewFromInt(225), Category: catalogdomain.CategoryFish, Currency: "₹"}, Quantity: 2},
		{Product: catalogdomain.Product{ID: "p-2", Name: "Amazon Sword Plant", Price: decimal.NewFromInt(375), Category: catalogdomain.CategoryPlants, Currency: "₹"}, Quantity: 1},
	}
	order, err := domain.NewOrder(id, userID, lines, "12 Reef Road, Kochi, Kerala 682001", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return order
}

func ids(orders []*domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
