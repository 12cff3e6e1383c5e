package kv

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps every order as one JSON document under kvstore.KeyOrders.
type Repository struct {
	mu    sync.Mutex
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

type orderDocument struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Lines         []lineDocument  `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	Address       string          `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
}

// lineDocument is the stored shape of an order line.
type lineDocument struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency,omitempty"`
	Quantity    int             `json:"quantity"`
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	doc := toDocument(clone)
	replaced := false
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyOrders, docs); err != nil {
		return nil, err
	}
	return clone, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.ID == id {
			return toDomain(doc), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.filter(ctx, func(orderDocument) bool { return true })
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.filter(ctx, func(doc orderDocument) bool { return doc.UserID == userID })
}

func (r *Repository) filter(ctx context.Context, keep func(orderDocument) bool) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for _, doc := range docs {
		if keep(doc) {
			orders = append(orders, toDomain(doc))
		}
	}
	return orders, nil
}

func (r *Repository) load(ctx context.Context) ([]orderDocument, error) {
	if r.store == nil {
		return nil, errors.New("order repository not configured")
	}
	var docs []orderDocument
	if _, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyOrders, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func toLineDocuments(lines []domain.Line) []lineDocument {
	out := make([]lineDocument, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineDocument{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			Description: l.Product.Description,
			Price:       l.Product.Price,
			Image:       l.Product.Image,
			Category:    string(l.Product.Category),
			Currency:    l.Product.Currency,
			Quantity:    l.Quantity,
		})
	}
	return out
}

func fromLineDocuments(docs []lineDocument) []domain.Line {
	out := make([]domain.Line, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Line{
			Product: catalogdomain.Product{
				ID:          d.ProductID,
				Name:        d.Name,
				Description: d.Description,
				Price:       d.Price,
				Image:       d.Image,
				Category:    catalogdomain.Category(d.Category),
				Currency:    d.Currency,
			},
			Quantity: d.Quantity,
		})
	}
	return out
}

func toDocument(o *domain.Order) orderDocument {
	return orderDocument{
		ID:            o.ID,
		UserID:        o.UserID,
		Lines:         toLineDocuments(o.Lines),
		Total:         o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		Address:       o.Address,
		PaymentMethod: string(o.PaymentMethod),
	}
}

func toDomain(doc orderDocument) *domain.Order {
	return &domain.Order{
		ID:            doc.ID,
		UserID:        doc.UserID,
		Lines:         fromLineDocuments(doc.Lines),
		Total:         doc.Total,
		Status:        domain.Status(doc.Status),
		CreatedAt:     doc.CreatedAt,
		Address:       doc.Address,
		PaymentMethod: domain.PaymentMethod(doc.PaymentMethod),
	}
}
