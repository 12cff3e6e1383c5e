package application

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/cart/ports"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	"github.com/crafty-aquatics/storefront/internal/shared/keylock"
)

// Service orchestrates cart use cases. Mutations of one owner's cart are serialized.
type Service struct {
	repo    ports.Repository
	catalog ports.ProductCatalog
	locks   *keylock.Striped
}

// NewService wires the cart service with its dependencies.
func NewService(repo ports.Repository, catalog ports.ProductCatalog) *Service {
	return &Service{repo: repo, catalog: catalog, locks: keylock.New(keylock.DefaultStripes)}
}

// GetCart loads the cart and refreshes every line from the catalog. Lines whose product
// is gone are flagged unavailable; lines above the current stock are flagged too.
func (s *Service) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range cart.Lines {
		product, err := s.catalog.GetProduct(ctx, cart.Lines[i].Product.ID)
		switch {
		case errors.Is(err, catalogports.ErrNotFound):
			cart.Lines[i].Unavailable = true
		case err != nil:
			return nil, err
		default:
			cart.Lines[i].Refresh(*product)
		}
	}
	return cart, nil
}

// AddLine adds quantity units of a product, or one unit when quantity is zero.
func (s *Service) AddLine(ctx context.Context, ownerID, productID string, quantity int) (*domain.Cart, error) {
	unlock := s.lock(ownerID)
	defer unlock()

	if quantity < 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	cart, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}
	if err := cart.Add(*product, quantity); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveLine drops a product from the cart; absent products are ignored.
func (s *Service) RemoveLine(ctx context.Context, ownerID, productID string) (*domain.Cart, error) {
	unlock := s.lock(ownerID)
	defer unlock()

	cart, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !cart.Remove(strings.TrimSpace(productID)) {
		return cart, nil
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity replaces a line quantity. Zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, ownerID, productID)
	}
	unlock := s.lock(ownerID)
	defer unlock()

	productID = strings.TrimSpace(productID)
	cart, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !cart.Has(productID) {
		return cart, nil
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	changed, err := cart.SetQuantity(*product, quantity)
	if err != nil {
		return nil, mapError(err)
	}
	if changed {
		if err := s.repo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// Clear empties the owner's cart.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	unlock := s.lock(ownerID)
	defer unlock()

	cart, err := domain.New(ownerID)
	if err != nil {
		return mapError(err)
	}
	return s.repo.Save(ctx, cart)
}

// Subtotal recomputes the cart total at current catalog prices.
func (s *Service) Subtotal(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	cart, err := s.GetCart(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Subtotal(), nil
}

func (s *Service) load(ctx context.Context, ownerID string) (*domain.Cart, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, mapError(domain.ErrMissingOwner)
	}
	return s.repo.Get(ctx, ownerID)
}

func (s *Service) lock(ownerID string) func() {
	return s.locks.Lock(strings.TrimSpace(ownerID))
}

var _ ports.Service = (*Service)(nil)
