package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/crafty-aquatics/storefront/internal/domains/backoffice/domain"
	catalogmapper "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/http/mapper"
	ordersmapper "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/http/mapper"
	usersmapper "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/http/mapper"
)

type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Dashboard is the admin landing page payload.
type Dashboard struct {
	TotalProducts        int                     `json:"totalProducts"`
	TotalOrders          int                     `json:"totalOrders"`
	PendingOrders        int                     `json:"pendingOrders"`
	TotalRevenue         decimal.Decimal         `json:"totalRevenue"`
	TotalCustomers       int                     `json:"totalCustomers"`
	CategoryDistribution []CategoryShare         `json:"categoryDistribution"`
	RecentOrders         []ordersmapper.Order    `json:"recentOrders"`
	LowStock             []catalogmapper.Product `json:"lowStock"`
}

type Customer struct {
	usersmapper.User
	OrderCount int             `json:"orderCount"`
	TotalSpend decimal.Decimal `json:"totalSpend"`
}

func FromDashboard(d domain.Dashboard) Dashboard {
	shares := make([]CategoryShare, 0, len(d.CategoryDistribution))
	for _, s := range d.CategoryDistribution {
		shares = append(shares, CategoryShare{Category: string(s.Category), Count: s.Count, Percentage: s.Percentage})
	}
	return Dashboard{
		TotalProducts:        d.TotalProducts,
		TotalOrders:          d.TotalOrders,
		PendingOrders:        d.PendingOrders,
		TotalRevenue:         d.TotalRevenue,
		TotalCustomers:       d.TotalCustomers,
		CategoryDistribution: shares,
		RecentOrders:         ordersmapper.FromDomainOrders(d.RecentOrders),
		LowStock:             catalogmapper.FromDomainProducts(d.LowStock),
	}
}

func FromCustomers(customers []domain.Customer) []Customer {
	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, Customer{
			User:       usersmapper.FromDomainUser(c.User),
			OrderCount: c.OrderCount,
			TotalSpend: c.TotalSpend,
		})
	}
	return out
}
