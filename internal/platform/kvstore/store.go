// Package kvstore is the key-value persistence boundary used by the storefront stores.
// Backends only need to move opaque blobs; encoding stays with the callers.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("kvstore: key not found")

// Fixed keys used by the snapshot repositories.
const (
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeyUsers    = "users"

	cartKeyPrefix        = "cart:"
	sessionKeyPrefix     = "session:"
	idempotencyKeyPrefix = "idempotency:checkout:"
)

// CartKey returns the key holding the cart of one owner.
func CartKey(ownerID string) string {
	return cartKeyPrefix + ownerID
}

// SessionKey returns the key holding the login session of one user.
func SessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// IdempotencyKey returns the key holding one checkout idempotency record.
func IdempotencyKey(key string) string {
	return idempotencyKeyPrefix + key
}

// Store is the get/set contract every backend implements.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value under key into dest. It reports false when the key is absent.
func GetJSON(ctx context.Context, store Store, key string, dest any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("kvstore: decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and writes it under key.
func SetJSON(ctx context.Context, store Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore: encode %q: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}
