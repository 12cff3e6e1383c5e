package kv

import (
	"context"
	"sync"
	"time"

	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps one JSON document per checkout key.
type IdempotencyStore struct {
	mu    sync.Mutex
	store kvstore.Store
	now   func() time.Time
}

func NewIdempotencyStore(store kvstore.Store) *IdempotencyStore {
	return &IdempotencyStore{store: store, now: time.Now}
}

type recordDocument struct {
	RequestHash string    `json:"requestHash"`
	OrderID     string    `json:"orderId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, key)
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.RequestHash != record.RequestHash {
			return existing, ports.ErrIdempotencyConflict
		}
		return existing, nil
	}
	now := s.now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	doc := recordDocument{RequestHash: record.RequestHash, OrderID: record.OrderID, CreatedAt: now, UpdatedAt: now}
	if err := kvstore.SetJSON(ctx, s.store, kvstore.IdempotencyKey(record.Key), doc); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *IdempotencyStore) get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	var doc recordDocument
	found, err := kvstore.GetJSON(ctx, s.store, kvstore.IdempotencyKey(key), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &ports.IdempotencyRecord{
		Key:         key,
		RequestHash: doc.RequestHash,
		OrderID:     doc.OrderID,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}
