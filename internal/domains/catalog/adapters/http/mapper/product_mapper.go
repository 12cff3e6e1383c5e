package mapper

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

// Product is the HTTP representation of a catalog entry.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Currency    string          `json:"currency"`
	InStock     bool            `json:"inStock"`
}

// ProductPayload is the admin create/edit body.
type ProductPayload struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category" binding:"required,oneof=fish plants equipment decoration"`
	Stock       *int            `json:"stock" binding:"required,gte=0"`
	Currency    string          `json:"currency"`
}

// StockUpdate is one entry of the bulk inventory body.
type StockUpdate struct {
	ProductID string `json:"productId" binding:"required"`
	Stock     *int   `json:"stock" binding:"required,gte=0"`
}

// StockUpdateBatch is the bulk inventory body.
type StockUpdateBatch struct {
	Updates []StockUpdate `json:"updates" binding:"required,min=1,dive"`
}

// StockChange reports one applied stock update.
type StockChange struct {
	ProductID string `json:"productId"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
}

// ToCreateInput maps an admin payload to the create use case input.
func ToCreateInput(payload ProductPayload) catalogports.CreateProductInput {
	return catalogports.CreateProductInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Image:       payload.Image,
		Category:    catalogdomain.Category(payload.Category),
		Stock:       derefInt(payload.Stock),
		Currency:    payload.Currency,
	}
}

// ToDomainProduct maps an edit payload onto the product with the given id.
func ToDomainProduct(id string, payload ProductPayload) *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:          id,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Image:       payload.Image,
		Category:    catalogdomain.Category(payload.Category),
		Stock:       derefInt(payload.Stock),
		Currency:    payload.Currency,
	}
}

// ToStockUpdates maps the bulk inventory body.
func ToStockUpdates(batch StockUpdateBatch) []catalogdomain.StockUpdate {
	updates := make([]catalogdomain.StockUpdate, 0, len(batch.Updates))
	for _, u := range batch.Updates {
		updates = append(updates, catalogdomain.StockUpdate{ProductID: u.ProductID, Stock: derefInt(u.Stock)})
	}
	return updates
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(p *catalogdomain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    string(p.Category),
		Stock:       p.Stock,
		Currency:    p.Currency,
		InStock:     p.InStock(),
	}
}

func FromDomainProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomainProduct(p))
	}
	return out
}

func FromStockChanges(changes []catalogdomain.StockChange) []StockChange {
	out := make([]StockChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, StockChange{ProductID: c.ProductID, Before: c.Before, After: c.After})
	}
	return out
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
