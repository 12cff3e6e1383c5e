// Package repositorytest holds the behaviour every catalog repository must share.
package repositorytest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

// Run exercises repo against the catalog repository contract. build must return an empty repository.
func Run(t *testing.T, build func(t *testing.T) ports.Repository) {
	t.Helper()

	t.Run("create and get round trip", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, product(t, "p-1", "Neon Tetra", 225, domain.CategoryFish, 50))
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Neon Tetra", fetched.Name)
		assert.True(t, decimal.NewFromInt(225).Equal(fetched.Price))
		assert.Equal(t, domain.CategoryFish, fetched.Category)
		assert.Equal(t, 50, fetched.Stock)
		assert.Equal(t, domain.DefaultCurrency, fetched.Currency)

		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		for _, id := range []string{"c", "a", "b"} {
			_, err := repo.Create(ctx, product(t, id, "Product "+id, 100, domain.CategoryPlants, 1))
			require.NoError(t, err)
		}
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("update unknown id writes nothing", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, product(t, "p-1", "Filter", 1899, domain.CategoryEquipment, 15))
		require.NoError(t, err)

		_, err = repo.Update(ctx, product(t, "ghost", "Ghost", 1, domain.CategoryFish, 1))
		require.ErrorIs(t, err, ports.ErrNotFound)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)

		edited := list[0]
		edited.Price = decimal.NewFromInt(1799)
		updated, err := repo.Update(ctx, edited)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1799).Equal(updated.Price))
	})

	t.Run("delete", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, product(t, "p-1", "Castle", 1199, domain.CategoryDecoration, 10))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, "p-1"))
		_, err = repo.GetByID(ctx, "p-1")
		require.ErrorIs(t, err, ports.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "p-1"), ports.ErrNotFound)
	})

	t.Run("set stock is all or nothing", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, product(t, "a", "A", 10, domain.CategoryFish, 5))
		require.NoError(t, err)

		_, err = repo.SetStock(ctx, []domain.StockUpdate{{ProductID: "a", Stock: 9}, {ProductID: "missing", Stock: 1}})
		require.ErrorIs(t, err, ports.ErrNotFound)
		assertStock(t, repo, "a", 5)

		changes, err := repo.SetStock(ctx, []domain.StockUpdate{{ProductID: "a", Stock: 9}})
		require.NoError(t, err)
		assert.Equal(t, []domain.StockChange{{ProductID: "a", Before: 5, After: 9}}, changes)
		assertStock(t, repo, "a", 9)
	})

	t.Run("reserve never goes negative", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, product(t, "a", "A", 10, domain.CategoryFish, 5))
		require.NoError(t, err)
		_, err = repo.Create(ctx, product(t, "b", "B", 20, domain.CategoryPlants, 1))
		require.NoError(t, err)

		_, _, err = repo.Reserve(ctx, "", []domain.StockReservation{{ProductID: "a", Quantity: 3}, {ProductID: "b", Quantity: 2}})
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		assertStock(t, repo, "a", 5)
		assertStock(t, repo, "b", 1)

		reserved, applied, err := repo.Reserve(ctx, "", []domain.StockReservation{{ProductID: "a", Quantity: 3}, {ProductID: "b", Quantity: 1}})
		require.NoError(t, err)
		assert.True(t, applied)
		require.Len(t, reserved, 2)
		assert.Equal(t, "a", reserved[0].ID)
		assert.True(t, decimal.NewFromInt(10).Equal(reserved[0].Price))
		assertStock(t, repo, "a", 2)
		assertStock(t, repo, "b", 0)

		changes, err := repo.Release(ctx, "", []domain.StockReservation{{ProductID: "a", Quantity: 3}, {ProductID: "gone", Quantity: 1}})
		require.NoError(t, err)
		assert.Equal(t, []domain.StockChange{{ProductID: "a", Before: 2, After: 5}}, changes)
		assertStock(t, repo, "a", 5)
	})

	t.Run("keyed reserve and release apply once", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, product(t, "a", "A", 10, domain.CategoryFish, 5))
		require.NoError(t, err)
		lines := []domain.StockReservation{{ProductID: "a", Quantity: 2}}

		reserved, applied, err := repo.Reserve(ctx, "order-1", lines)
		require.NoError(t, err)
		assert.True(t, applied)
		require.Len(t, reserved, 1)
		assert.Equal(t, 3, reserved[0].Stock)

		again, applied, err := repo.Reserve(ctx, "order-1", lines)
		require.NoError(t, err)
		assert.False(t, applied)
		require.Len(t, again, 1)
		assert.Equal(t, "a", again[0].ID)
		assertStock(t, repo, "a", 3)

		_, applied, err = repo.Reserve(ctx, "order-2", lines)
		require.NoError(t, err)
		assert.True(t, applied)
		assertStock(t, repo, "a", 1)

		changes, err := repo.Release(ctx, "order-1", lines)
		require.NoError(t, err)
		assert.Equal(t, []domain.StockChange{{ProductID: "a", Before: 1, After: 3}}, changes)
		changes, err = repo.Release(ctx, "order-1", lines)
		require.NoError(t, err)
		assert.Empty(t, changes)
		assertStock(t, repo, "a", 3)

		changes, err = repo.Release(ctx, "never-reserved", lines)
		require.NoError(t, err)
		assert.Empty(t, changes)
		assertStock(t, repo, "a", 3)
	})
}

func product(t *testing.T, id, name string, price int64, category domain.Category, stock int) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, name, name+" for the tank", decimal.NewFromInt(price), "https://img.example/"+id, category, stock, "")
	require.NoError(t, err)
	return p
}

func assertStock(t *testing.T, repo ports.Repository, id string, want int) {
	t.Helper()
	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, want, p.Stock)
}
