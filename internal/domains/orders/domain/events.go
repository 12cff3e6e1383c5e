package domain

import (
	"time"

	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

// OrderPlaced is raised when a checkout produces an order.
type OrderPlaced struct {
	events.BaseEvent
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	Total     string `json:"total"`
	ItemCount int    `json:"itemCount"`
}

func (OrderPlaced) EventName() string     { return "orders.order.placed" }
func (e OrderPlaced) AggregateID() string { return e.OrderID }

// OrderStatusChanged is raised when an admin advances an order.
type OrderStatusChanged struct {
	events.BaseEvent
	OrderID string `json:"orderId"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

func (OrderStatusChanged) EventName() string     { return "orders.order.status_changed" }
func (e OrderStatusChanged) AggregateID() string { return e.OrderID }

func NewOrderPlaced(o *Order, at time.Time) OrderPlaced {
	return OrderPlaced{
		BaseEvent: events.NewBaseEvent(at),
		OrderID:   o.ID,
		UserID:    o.UserID,
		Total:     o.Total.String(),
		ItemCount: o.ItemCount(),
	}
}
