package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrDuplicateProduct = errors.New("product listed more than once")

// StockUpdate sets an absolute stock level for one product.
type StockUpdate struct {
	ProductID string
	Stock     int
}

// StockReservation takes a quantity out of stock for one product.
type StockReservation struct {
	ProductID string
	Quantity  int
}

// StockChange records a stock level before and after a mutation.
type StockChange struct {
	ProductID string
	Before    int
	After     int
}

// ValidateStockUpdates rejects the batch if any entry is malformed.
func ValidateStockUpdates(updates []StockUpdate) error {
	seen := make(map[string]struct{}, len(updates))
	for _, u := range updates {
		id := strings.TrimSpace(u.ProductID)
		if id == "" {
			return fmt.Errorf("%w: product id is required", ErrInvalidQuantity)
		}
		if u.Stock < 0 {
			return fmt.Errorf("%w: product %s", ErrNegativeStock, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateProduct, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// MergeReservations sums quantities per product, keeping first-seen order.
func MergeReservations(reservations []StockReservation) ([]StockReservation, error) {
	merged := make([]StockReservation, 0, len(reservations))
	index := make(map[string]int, len(reservations))
	for _, r := range reservations {
		id := strings.TrimSpace(r.ProductID)
		if id == "" || r.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %q quantity %d", ErrInvalidQuantity, id, r.Quantity)
		}
		if i, ok := index[id]; ok {
			merged[i].Quantity += r.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, StockReservation{ProductID: id, Quantity: r.Quantity})
	}
	return merged, nil
}

var ErrUnknownProduct = errors.New("unknown product")

// ApplyStockUpdates sets absolute stock levels on indexed products.
// Nothing is modified unless every update resolves and is non-negative.
func ApplyStockUpdates(index map[string]*Product, updates []StockUpdate) ([]StockChange, error) {
	for _, u := range updates {
		if _, ok := index[u.ProductID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, u.ProductID)
		}
		if u.Stock < 0 {
			return nil, fmt.Errorf("%w: product %s", ErrNegativeStock, u.ProductID)
		}
	}
	changes := make([]StockChange, 0, len(updates))
	for _, u := range updates {
		p := index[u.ProductID]
		changes = append(changes, StockChange{ProductID: p.ID, Before: p.Stock, After: u.Stock})
		p.Stock = u.Stock
	}
	return changes, nil
}

// ApplyReservations decrements stock on indexed products and returns copies of
// the reserved products. Nothing is modified unless every reservation fits.
func ApplyReservations(index map[string]*Product, reservations []StockReservation) ([]*Product, error) {
	for _, r := range reservations {
		p, ok := index[r.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, r.ProductID)
		}
		if r.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if r.Quantity > p.Stock {
			return nil, fmt.Errorf("%w: %q has %d, requested %d", ErrInsufficientStock, p.Name, p.Stock, r.Quantity)
		}
	}
	reserved := make([]*Product, 0, len(reservations))
	for _, r := range reservations {
		p := index[r.ProductID]
		p.Stock -= r.Quantity
		reserved = append(reserved, p.Clone())
	}
	return reserved, nil
}

// ApplyReleases returns reserved quantities to indexed products, skipping unknown ids.
func ApplyReleases(index map[string]*Product, reservations []StockReservation) []StockChange {
	changes := make([]StockChange, 0, len(reservations))
	for _, r := range reservations {
		p, ok := index[r.ProductID]
		if !ok || r.Quantity <= 0 {
			continue
		}
		changes = append(changes, StockChange{ProductID: p.ID, Before: p.Stock, After: p.Stock + r.Quantity})
		p.Stock += r.Quantity
	}
	return changes
}

// ReservationLedger remembers keyed reservations until they are released.
type ReservationLedger map[string][]StockReservation

// Reserved reports whether key holds a live reservation. The empty key never does.
func (l ReservationLedger) Reserved(key string) bool {
	if key == "" {
		return false
	}
	_, ok := l[key]
	return ok
}

// ReservedProducts returns copies of the indexed products named by reservations, in order.
func ReservedProducts(index map[string]*Product, reservations []StockReservation) []*Product {
	products := make([]*Product, 0, len(reservations))
	for _, r := range reservations {
		if p, ok := index[r.ProductID]; ok {
			products = append(products, p.Clone())
		}
	}
	return products
}
