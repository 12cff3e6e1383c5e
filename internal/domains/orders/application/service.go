package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
	"github.com/crafty-aquatics/storefront/internal/shared/keylock"
)

// Service orchestrates order use cases. Writes to one order id are serialized.
type Service struct {
	repo      ports.Repository
	publisher ports.EventPublisher
	now       func() time.Time
	newID     func() string
	locks     *keylock.Striped
}

type Option func(*Service)

// WithEventPublisher sends order events to p. Publishing is best effort.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: events.NoopPublisher,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     keylock.New(keylock.DefaultStripes),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Place converts a cart snapshot into a pending order. Stock is not touched here.
func (s *Service) Place(ctx context.Context, input ports.PlaceInput) (*domain.Order, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	if input.ID != "" {
		existing, err := s.repo.GetByID(ctx, id)
		switch {
		case err == nil && existing.UserID == strings.TrimSpace(input.UserID):
			return existing, nil
		case err == nil:
			return nil, fmt.Errorf("%w: order %s belongs to another user", ErrConflict, id)
		case !errors.Is(err, ports.ErrNotFound):
			return nil, err
		}
	}
	order, err := domain.NewOrder(id, input.UserID, input.Lines, input.Address, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	_ = s.publisher.Publish(ctx, domain.NewOrderPlaced(saved, s.now()))
	return saved, nil
}

// SetStatus advances an order along pending, processing, shipped, delivered.
// The read and the write happen under the order's lock so a stale read never moves it backwards.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	unlock := s.locks.Lock(id)
	defer unlock()

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	from := order.Status
	changed, err := order.UpdateStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		return order, nil
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	_ = s.publisher.Publish(ctx, domain.OrderStatusChanged{
		BaseEvent: events.NewBaseEvent(s.now()),
		OrderID:   saved.ID,
		From:      from,
		To:        saved.Status,
	})
	return saved, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, strings.TrimSpace(userID))
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// Stats aggregates revenue and counts over every order.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Summarize(orders), nil
}

var _ ports.Service = (*Service)(nil)
