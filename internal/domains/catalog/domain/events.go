package domain

import (
	"time"

	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

// ProductCreated is raised when an admin adds a product.
type ProductCreated struct {
	events.BaseEvent
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Price     string   `json:"price"`
	Stock     int      `json:"stock"`
}

func (ProductCreated) EventName() string     { return "catalog.product.created" }
func (e ProductCreated) AggregateID() string { return e.ProductID }

// ProductUpdated is raised when an admin edits a product.
type ProductUpdated struct {
	events.BaseEvent
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Stock     int    `json:"stock"`
}

func (ProductUpdated) EventName() string     { return "catalog.product.updated" }
func (e ProductUpdated) AggregateID() string { return e.ProductID }

// ProductDeleted is raised when a product is removed from the catalog.
type ProductDeleted struct {
	events.BaseEvent
	ProductID string `json:"productId"`
}

func (ProductDeleted) EventName() string     { return "catalog.product.deleted" }
func (e ProductDeleted) AggregateID() string { return e.ProductID }

// StockReason explains a stock movement.
type StockReason string

const (
	StockReasonAdjustment  StockReason = "adjustment"
	StockReasonReservation StockReason = "reservation"
	StockReasonRelease     StockReason = "release"
)

// StockAdjusted is raised once per stock batch.
type StockAdjusted struct {
	events.BaseEvent
	Reason  StockReason   `json:"reason"`
	Changes []StockChange `json:"changes"`
}

func (StockAdjusted) EventName() string { return "catalog.stock.adjusted" }

func (e StockAdjusted) AggregateID() string {
	if len(e.Changes) == 1 {
		return e.Changes[0].ProductID
	}
	return "batch"
}

// NewProductCreated snapshots p.
func NewProductCreated(p *Product, at time.Time) ProductCreated {
	return ProductCreated{
		BaseEvent: events.NewBaseEvent(at),
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price.String(),
		Stock:     p.Stock,
	}
}

// NewProductUpdated snapshots p.
func NewProductUpdated(p *Product, at time.Time) ProductUpdated {
	return ProductUpdated{
		BaseEvent: events.NewBaseEvent(at),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price.String(),
		Stock:     p.Stock,
	}
}
