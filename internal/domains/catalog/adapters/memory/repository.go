package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter that keeps insertion order.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
	ledger   domain.ReservationLedger
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}, ledger: domain.ReservationLedger{}}
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.products[id].Clone())
	}
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[clone.ID]; exists {
		return nil, fmt.Errorf("product %s already exists", clone.ID)
	}
	r.products[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return clone.Clone(), nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.products[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) SetStock(_ context.Context, updates []domain.StockUpdate) ([]domain.StockChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changes, err := domain.ApplyStockUpdates(r.products, updates)
	if err != nil {
		return nil, notFound(err)
	}
	return changes, nil
}

func (r *Repository) Reserve(_ context.Context, key string, reservations []domain.StockReservation) ([]*domain.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ledger.Reserved(key) {
		return domain.ReservedProducts(r.products, r.ledger[key]), false, nil
	}
	reserved, err := domain.ApplyReservations(r.products, reservations)
	if err != nil {
		return nil, false, notFound(err)
	}
	if key != "" {
		r.ledger[key] = append([]domain.StockReservation(nil), reservations...)
	}
	return reserved, true, nil
}

func (r *Repository) Release(_ context.Context, key string, reservations []domain.StockReservation) ([]domain.StockChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key == "" {
		return domain.ApplyReleases(r.products, reservations), nil
	}
	held, ok := r.ledger[key]
	if !ok {
		return []domain.StockChange{}, nil
	}
	delete(r.ledger, key)
	return domain.ApplyReleases(r.products, held), nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrUnknownProduct) {
		return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
	}
	return err
}
