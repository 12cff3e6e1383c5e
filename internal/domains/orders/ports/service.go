package ports

import (
	"context"

	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

// PlaceInput carries a frozen cart snapshot into the order store. A non-empty ID makes
// Place idempotent: an existing order with that ID for the same user is returned as is.
type PlaceInput struct {
	ID      string
	UserID  string
	Lines   []domain.Line
	Address string
}

// Service exposes order use cases to adapters.
type Service interface {
	Place(ctx context.Context, input PlaceInput) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// EventPublisher emits order events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
