package kv

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/cart/ports"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

var _ ports.Repository = (*Repository)(nil)

// Repository stores each cart as a JSON document under kvstore.CartKey(owner).
type Repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

type cartDocument struct {
	OwnerID string         `json:"ownerId"`
	Lines   []lineDocument `json:"lines"`
}

type lineDocument struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Currency    string          `json:"currency,omitempty"`
	Quantity    int             `json:"quantity"`
}

func (r *Repository) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	if r == nil || r.store == nil {
		return nil, errors.New("cart repository not configured")
	}
	cart, err := domain.New(ownerID)
	if err != nil {
		return nil, err
	}
	var doc cartDocument
	found, err := kvstore.GetJSON(ctx, r.store, kvstore.CartKey(cart.OwnerID), &doc)
	if err != nil || !found {
		return cart, err
	}
	for _, l := range doc.Lines {
		cart.Lines = append(cart.Lines, domain.Line{Product: toProduct(l), Quantity: l.Quantity})
	}
	return cart, nil
}

// Save writes the cart snapshot; empty carts delete the key.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) error {
	if r == nil || r.store == nil {
		return errors.New("cart repository not configured")
	}
	if cart == nil {
		return errors.New("cart is nil")
	}
	key := kvstore.CartKey(cart.OwnerID)
	if cart.IsEmpty() {
		return r.store.Delete(ctx, key)
	}
	doc := cartDocument{OwnerID: cart.OwnerID, Lines: make([]lineDocument, 0, len(cart.Lines))}
	for _, l := range cart.Lines {
		doc.Lines = append(doc.Lines, lineDocument{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			Description: l.Product.Description,
			Price:       l.Product.Price,
			Image:       l.Product.Image,
			Category:    string(l.Product.Category),
			Stock:       l.Product.Stock,
			Currency:    l.Product.Currency,
			Quantity:    l.Quantity,
		})
	}
	return kvstore.SetJSON(ctx, r.store, key, doc)
}

func toProduct(l lineDocument) catalogdomain.Product {
	return catalogdomain.Product{
		ID:          l.ProductID,
		Name:        l.Name,
		Description: l.Description,
		Price:       l.Price,
		Image:       l.Image,
		Category:    catalogdomain.Category(l.Category),
		Stock:       l.Stock,
		Currency:    l.Currency,
	}
}
