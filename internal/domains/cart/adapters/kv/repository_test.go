package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

type brokenStore struct{ kvstore.Store }

func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewRepository(store)

	empty, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	cart, err := domain.New("u-1")
	require.NoError(t, err)
	require.NoError(t, cart.Add(catalogdomain.Product{
		ID: "p-1", Name: "Neon Tetra", Price: decimal.NewFromInt(225), Category: catalogdomain.CategoryFish, Stock: 50, Currency: "₹",
	}, 2))
	require.NoError(t, repo.Save(ctx, cart))

	_, err = store.Get(ctx, "cart:u-1")
	require.NoError(t, err)

	loaded, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, 2, loaded.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(450).Equal(loaded.Subtotal()))

	loaded.Clear()
	require.NoError(t, repo.Save(ctx, loaded))
	_, err = store.Get(ctx, "cart:u-1")
	require.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestRepository_SurfacesStoreErrors(t *testing.T) {
	repo := NewRepository(brokenStore{Store: kvstore.NewMemory()})
	cart, err := domain.New("u-1")
	require.NoError(t, err)
	require.NoError(t, cart.Add(catalogdomain.Product{ID: "p", Name: "P", Price: decimal.NewFromInt(1), Stock: 1}, 1))
	require.ErrorContains(t, repo.Save(context.Background(), cart), "disk full")
}
