package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	usersdomain "github.com/crafty-aquatics/storefront/internal/domains/users/domain"
)

// Customer is one account with its purchase history totals.
type Customer struct {
	User       *usersdomain.User
	OrderCount int
	TotalSpend decimal.Decimal
}

// BuildCustomers joins users with their orders. search matches name, email or id, case-insensitively.
func BuildCustomers(users []*usersdomain.User, orders []*ordersdomain.Order, search string) []Customer {
	type totals struct {
		count int
		spend decimal.Decimal
	}
	byUser := map[string]*totals{}
	for _, o := range orders {
		t, ok := byUser[o.UserID]
		if !ok {
			t = &totals{spend: decimal.Zero}
			byUser[o.UserID] = t
		}
		t.count++
		t.spend = t.spend.Add(o.Total)
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]Customer, 0, len(users))
	for _, u := range users {
		if needle != "" && !containsAny(needle, u.Name, u.Email, u.ID) {
			continue
		}
		c := Customer{User: u, TotalSpend: decimal.Zero}
		if t, ok := byUser[u.ID]; ok {
			c.OrderCount = t.count
			c.TotalSpend = t.spend
		}
		out = append(out, c)
	}
	return out
}

// FilterOrders narrows the admin order list. An empty or "all" status keeps every status;
// search matches the order id or the user id.
func FilterOrders(orders []*ordersdomain.Order, status string, search string) ([]*ordersdomain.Order, error) {
	var wanted ordersdomain.Status
	if s := strings.TrimSpace(status); s != "" && !strings.EqualFold(s, "all") {
		parsed, err := ordersdomain.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		wanted = parsed
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]*ordersdomain.Order, 0, len(orders))
	for _, o := range orders {
		if wanted != "" && o.Status != wanted {
			continue
		}
		if needle != "" && !containsAny(needle, o.ID, o.UserID) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func containsAny(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
