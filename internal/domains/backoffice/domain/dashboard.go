package domain

import (
	"sort"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

// RecentOrderLimit caps the recent orders shown on the dashboard.
const RecentOrderLimit = 5

// Dashboard is the admin landing page summary.
type Dashboard struct {
	TotalProducts        int
	TotalOrders          int
	PendingOrders        int
	TotalRevenue         decimal.Decimal
	TotalCustomers       int
	CategoryDistribution []catalogdomain.CategoryShare
	RecentOrders         []*ordersdomain.Order
	LowStock             []*catalogdomain.Product
}

// BuildDashboard summarises the catalog and the orders. Orders are expected in insertion order.
func BuildDashboard(products []*catalogdomain.Product, orders []*ordersdomain.Order, lowStockThreshold int) Dashboard {
	stats := ordersdomain.Summarize(orders)
	return Dashboard{
		TotalProducts:        len(products),
		TotalOrders:          stats.OrderCount,
		PendingOrders:        stats.PendingCount,
		TotalRevenue:         stats.Revenue,
		TotalCustomers:       stats.CustomerCount,
		CategoryDistribution: catalogdomain.Distribution(products),
		RecentOrders:         Recent(orders, RecentOrderLimit),
		LowStock:             catalogdomain.LowStock(products, lowStockThreshold),
	}
}

// Recent returns up to limit orders, newest first.
func Recent(orders []*ordersdomain.Order, limit int) []*ordersdomain.Order {
	out := make([]*ordersdomain.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		out = append(out, orders[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
