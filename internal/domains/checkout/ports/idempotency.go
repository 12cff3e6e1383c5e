package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was reused for a different checkout request.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")

// IdempotencyRecord ties a client-supplied key to the order id its checkout produces.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so retried checkouts resolve to the same order.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save stores the record unless the key exists. An existing record with the same request hash is
	// returned as is, order id included; a different hash returns the stored record with ErrIdempotencyConflict.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
