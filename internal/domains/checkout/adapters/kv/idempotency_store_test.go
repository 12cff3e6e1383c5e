package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/idempotencytest"
	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

func TestIdempotencyStore_Contract(t *testing.T) {
	idempotencytest.Run(t, func(*testing.T) ports.IdempotencyStore { return NewIdempotencyStore(kvstore.NewMemory()) })
}

func TestIdempotencyStore_WritesUnderPrefixedKey(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	_, err := NewIdempotencyStore(store).Save(ctx, ports.IdempotencyRecord{Key: "u-1:k", RequestHash: "h", OrderID: "o-1"})
	require.NoError(t, err)

	_, err = store.Get(ctx, "idempotency:checkout:u-1:k")
	require.NoError(t, err)
}
