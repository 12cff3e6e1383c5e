// Package idempotencytest holds the behaviour every checkout idempotency store must share.
package idempotencytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
)

// Run exercises store against the idempotency store contract. build must return an empty store.
func Run(t *testing.T, build func(t *testing.T) ports.IdempotencyStore) {
	t.Helper()

	t.Run("unknown key is nil", func(t *testing.T) {
		store := build(t)
		record, err := store.Get(context.Background(), "u-1:missing")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("first save wins", func(t *testing.T) {
		store := build(t)
		ctx := context.Background()

		saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "u-1:k", RequestHash: "h1", OrderID: "o-1"})
		require.NoError(t, err)
		assert.Equal(t, "o-1", saved.OrderID)
		assert.False(t, saved.CreatedAt.IsZero())

		replayed, err := store.Save(ctx, ports.IdempotencyRecord{Key: "u-1:k", RequestHash: "h1", OrderID: "o-2"})
		require.NoError(t, err)
		assert.Equal(t, "o-1", replayed.OrderID)

		fetched, err := store.Get(ctx, "u-1:k")
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "h1", fetched.RequestHash)
		assert.Equal(t, "o-1", fetched.OrderID)
	})

	t.Run("different request under the same key conflicts", func(t *testing.T) {
		store := build(t)
		ctx := context.Background()

		_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "u-1:k", RequestHash: "h1", OrderID: "o-1"})
		require.NoError(t, err)

		existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "u-1:k", RequestHash: "h2", OrderID: "o-2"})
		require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
		require.NotNil(t, existing)
		assert.Equal(t, "o-1", existing.OrderID)
	})
}
