package domain

import (
	"errors"
	"fmt"
	"strings"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUnavailableLines = errors.New("cart contains products that are no longer available")
	ErrMissingUser      = errors.New("checkout user is required")

	ErrInvalidIdempotencyKey = errors.New("idempotency key is invalid")
)

// MaxIdempotencyKeyLength bounds client keys so the user-scoped key fits its store column.
const MaxIdempotencyKeyLength = 128

// NormalizeIdempotencyKey trims key and rejects one that is too long. Empty means no key.
func NormalizeIdempotencyKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if len(key) > MaxIdempotencyKeyLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidIdempotencyKey, MaxIdempotencyKeyLength)
	}
	return key, nil
}

// Plan is the frozen cart a checkout works from. OrderID is fixed before any stock moves and
// keys both the reservation and the order. Replay marks a checkout whose order already exists.
type Plan struct {
	UserID       string
	Address      string
	OrderID      string
	Replay       bool
	Reservations []catalogdomain.StockReservation
	Lines        []ordersdomain.Line
}

// LinesFromProducts rebuilds the plan lines from the product snapshots taken at reservation time.
// Lines whose product is not in products keep their cart snapshot.
func (p Plan) LinesFromProducts(products []*catalogdomain.Product) []ordersdomain.Line {
	index := make(map[string]*catalogdomain.Product, len(products))
	for _, product := range products {
		if product != nil {
			index[product.ID] = product
		}
	}
	lines := make([]ordersdomain.Line, 0, len(p.Lines))
	for _, l := range p.Lines {
		if product, ok := index[l.Product.ID]; ok {
			l.Product = *product.Clone()
		}
		lines = append(lines, l)
	}
	return lines
}
