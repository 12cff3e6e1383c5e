package domain

import (
	"errors"
	"sort"
	"strings"
)

// SortKey orders shop listings.
type SortKey string

const (
	SortNameAsc   SortKey = "nameAsc"
	SortNameDesc  SortKey = "nameDesc"
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// DefaultLowStockThreshold matches the admin dashboard cut-off.
const DefaultLowStockThreshold = 20

var ErrInvalidSort = errors.New("sort key is invalid")

// ListQuery filters and orders the catalog. The zero value lists everything in insertion order.
type ListQuery struct {
	Category Category
	Search   string
	Sort     SortKey
}

// Validate checks the filter values.
func (q ListQuery) Validate() error {
	if q.Category != "" && q.Category != CategoryAll && !q.Category.Valid() {
		return ErrInvalidCategory
	}
	switch q.Sort {
	case "", SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return nil
	default:
		return ErrInvalidSort
	}
}

// Apply filters by category, then search text, then sorts. The input slice is not modified.
func (q ListQuery) Apply(products []*Product) []*Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	result := make([]*Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		result = append(result, p)
	}
	switch q.Sort {
	case SortNameAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		})
	case SortNameDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) > strings.ToLower(result[j].Name)
		})
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price.LessThan(result[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price.GreaterThan(result[j].Price) })
	}
	return result
}

// LowStock returns products below threshold, lowest stock first.
func LowStock(products []*Product, threshold int) []*Product {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	result := make([]*Product, 0)
	for _, p := range products {
		if p.Stock < threshold {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Stock < result[j].Stock })
	return result
}

// CategoryShare is the percentage of catalog entries in one category.
type CategoryShare struct {
	Category   Category
	Count      int
	Percentage float64
}

// Distribution counts products per category, in Categories() order, skipping empty ones.
func Distribution(products []*Product) []CategoryShare {
	if len(products) == 0 {
		return nil
	}
	counts := map[Category]int{}
	for _, p := range products {
		counts[p.Category]++
	}
	shares := make([]CategoryShare, 0, len(counts))
	for _, c := range Categories() {
		n := counts[c]
		if n == 0 {
			continue
		}
		shares = append(shares, CategoryShare{
			Category:   c,
			Count:      n,
			Percentage: float64(n) / float64(len(products)) * 100,
		})
	}
	return shares
}
