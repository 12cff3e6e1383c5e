package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogmapper "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/http/mapper"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

// Line is one purchased product with its frozen price.
type Line struct {
	Product   catalogmapper.Product `json:"product"`
	Quantity  int                   `json:"quantity"`
	LineTotal decimal.Decimal       `json:"lineTotal"`
}

// Order represents the transport-layer shape of a placed order.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Lines         []Line          `json:"items"`
	ItemCount     int             `json:"itemCount"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	Address       string          `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
}

// StatusUpdate is the admin status change body.
type StatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered"`
}

// Stats is the order summary shown on the dashboard.
type Stats struct {
	Revenue        decimal.Decimal `json:"revenue"`
	OrderCount     int             `json:"orderCount"`
	PendingCount   int             `json:"pendingCount"`
	CustomerCount  int             `json:"customerCount"`
	CountsByStatus map[string]int  `json:"countsByStatus"`
}

// ToDomainStatus parses the admin status body.
func ToDomainStatus(update StatusUpdate) (ordersdomain.Status, error) {
	return ordersdomain.ParseStatus(update.Status)
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{Lines: []Line{}}
	}
	out := Order{
		ID:            order.ID,
		UserID:        order.UserID,
		Lines:         make([]Line, 0, len(order.Lines)),
		ItemCount:     order.ItemCount(),
		Total:         order.Total,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		Address:       order.Address,
		PaymentMethod: string(order.PaymentMethod),
	}
	for i := range order.Lines {
		l := order.Lines[i]
		out.Lines = append(out.Lines, Line{
			Product:   catalogmapper.FromDomainProduct(&l.Product),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
		})
	}
	return out
}

// FromDomainOrders converts a slice, preserving order.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomainOrder(o))
	}
	return out
}

// FromDomainStats converts the dashboard order summary.
func FromDomainStats(stats ordersdomain.Stats) Stats {
	counts := make(map[string]int, len(ordersdomain.Statuses()))
	for _, s := range ordersdomain.Statuses() {
		counts[string(s)] = stats.CountsByStatus[s]
	}
	return Stats{
		Revenue:        stats.Revenue,
		OrderCount:     stats.OrderCount,
		PendingCount:   stats.PendingCount,
		CustomerCount:  stats.CustomerCount,
		CountsByStatus: counts,
	}
}
