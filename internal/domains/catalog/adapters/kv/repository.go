package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the whole catalog as one JSON document under kvstore.KeyProducts.
// Keyed reservations live in the same document so a decrement and its ledger entry land in one write.
type Repository struct {
	mu    sync.Mutex
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

type productDocument struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Currency    string          `json:"currency,omitempty"`
}

type reservationDocument struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type catalogDocument struct {
	Products     []productDocument                `json:"products"`
	Reservations map[string][]reservationDocument `json:"reservations,omitempty"`
}

// UnmarshalJSON also accepts the bare product array written before reservations were tracked.
func (d *catalogDocument) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		d.Reservations = nil
		return json.Unmarshal(trimmed, &d.Products)
	}
	type plain catalogDocument
	return json.Unmarshal(trimmed, (*plain)(d))
}

// catalog is the decoded document.
type catalog struct {
	products []*domain.Product
	ledger   domain.ReservationLedger
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.products, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range doc.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range doc.products {
		if p.ID == clone.ID {
			return nil, fmt.Errorf("product %s already exists", clone.ID)
		}
	}
	doc.products = append(doc.products, clone)
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return clone.Clone(), nil
}

func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i, p := range doc.products {
		if p.ID == clone.ID {
			doc.products[i] = clone
			if err := r.save(ctx, doc); err != nil {
				return nil, err
			}
			return clone.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, p := range doc.products {
		if p.ID == id {
			doc.products = append(doc.products[:i], doc.products[i+1:]...)
			return r.save(ctx, doc)
		}
	}
	return ports.ErrNotFound
}

func (r *Repository) SetStock(ctx context.Context, updates []domain.StockUpdate) ([]domain.StockChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	changes, err := domain.ApplyStockUpdates(index(doc.products), updates)
	if err != nil {
		return nil, notFound(err)
	}
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *Repository) Reserve(ctx context.Context, key string, reservations []domain.StockReservation) ([]*domain.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return nil, false, err
	}
	if doc.ledger.Reserved(key) {
		return domain.ReservedProducts(index(doc.products), doc.ledger[key]), false, nil
	}
	reserved, err := domain.ApplyReservations(index(doc.products), reservations)
	if err != nil {
		return nil, false, notFound(err)
	}
	if key != "" {
		doc.ledger[key] = append([]domain.StockReservation(nil), reservations...)
	}
	if err := r.save(ctx, doc); err != nil {
		return nil, false, err
	}
	return reserved, true, nil
}

func (r *Repository) Release(ctx context.Context, key string, reservations []domain.StockReservation) ([]domain.StockChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if key != "" {
		held, ok := doc.ledger[key]
		if !ok {
			return []domain.StockChange{}, nil
		}
		delete(doc.ledger, key)
		reservations = held
	}
	changes := domain.ApplyReleases(index(doc.products), reservations)
	if len(changes) == 0 && key == "" {
		return changes, nil
	}
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *Repository) load(ctx context.Context) (*catalog, error) {
	var doc catalogDocument
	if _, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyProducts, &doc); err != nil {
		return nil, err
	}
	out := &catalog{
		products: make([]*domain.Product, 0, len(doc.Products)),
		ledger:   make(domain.ReservationLedger, len(doc.Reservations)),
	}
	for _, p := range doc.Products {
		out.products = append(out.products, toDomain(p))
	}
	for key, held := range doc.Reservations {
		for _, res := range held {
			out.ledger[key] = append(out.ledger[key], domain.StockReservation{ProductID: res.ProductID, Quantity: res.Quantity})
		}
	}
	return out, nil
}

func (r *Repository) save(ctx context.Context, c *catalog) error {
	doc := catalogDocument{Products: make([]productDocument, 0, len(c.products))}
	for _, p := range c.products {
		doc.Products = append(doc.Products, toDocument(p))
	}
	if len(c.ledger) > 0 {
		doc.Reservations = make(map[string][]reservationDocument, len(c.ledger))
		for key, held := range c.ledger {
			for _, res := range held {
				doc.Reservations[key] = append(doc.Reservations[key], reservationDocument{ProductID: res.ProductID, Quantity: res.Quantity})
			}
		}
	}
	return kvstore.SetJSON(ctx, r.store, kvstore.KeyProducts, doc)
}

func index(products []*domain.Product) map[string]*domain.Product {
	out := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrUnknownProduct) {
		return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
	}
	return err
}

func toDocument(p *domain.Product) productDocument {
	return productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    string(p.Category),
		Stock:       p.Stock,
		Currency:    p.Currency,
	}
}

func toDomain(doc productDocument) *domain.Product {
	currency := doc.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &domain.Product{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Price:       doc.Price,
		Image:       doc.Image,
		Category:    domain.Category(doc.Category),
		Stock:       doc.Stock,
		Currency:    currency,
	}
}
