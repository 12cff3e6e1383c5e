package domain

import "github.com/shopspring/decimal"

// Stats summarises a set of orders for the admin dashboard.
type Stats struct {
	Revenue        decimal.Decimal
	OrderCount     int
	PendingCount   int
	CustomerCount  int
	CountsByStatus map[Status]int
}

// Summarize computes Stats over orders.
func Summarize(orders []*Order) Stats {
	stats := Stats{Revenue: decimal.Zero, CountsByStatus: map[Status]int{}}
	customers := map[string]struct{}{}
	for _, o := range orders {
		stats.OrderCount++
		stats.Revenue = stats.Revenue.Add(o.Total)
		stats.CountsByStatus[o.Status]++
		if o.Status == StatusPending {
			stats.PendingCount++
		}
		customers[o.UserID] = struct{}{}
	}
	stats.CustomerCount = len(customers)
	return stats
}
