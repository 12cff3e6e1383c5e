package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups products on the shop floor.
type Category string

const (
	CategoryFish       Category = "fish"
	CategoryPlants     Category = "plants"
	CategoryEquipment  Category = "equipment"
	CategoryDecoration Category = "decoration"
)

// DefaultCurrency tags prices when no currency is supplied.
const DefaultCurrency = "₹"

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidCategory   = errors.New("product category is invalid")
	ErrNegativeStock     = errors.New("stock cannot be negative")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Categories lists every sellable category in display order.
func Categories() []Category {
	return []Category{CategoryFish, CategoryPlants, CategoryEquipment, CategoryDecoration}
}

// ParseCategory normalizes raw input into a known category.
func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return category, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFish, CategoryPlants, CategoryEquipment, CategoryDecoration:
		return true
	default:
		return false
	}
}

// Product is the catalog aggregate: the source of truth for price and stock.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    Category
	Stock       int
	Currency    string
}

// NewProduct validates and constructs a Product.
func NewProduct(id, name, description string, price decimal.Decimal, image string, category Category, stock int, currency string) (*Product, error) {
	product := &Product{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Image:       strings.TrimSpace(image),
		Category:    category,
		Stock:       stock,
		Currency:    strings.TrimSpace(currency),
	}
	if product.Currency == "" {
		product.Currency = DefaultCurrency
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return ValidateImage(p.Image)
}

// SetStock overwrites the stock level.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	p.Stock = stock
	return nil
}

// Reserve takes quantity units out of stock.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return fmt.Errorf("%w: %q has %d, requested %d", ErrInsufficientStock, p.Name, p.Stock, quantity)
	}
	p.Stock -= quantity
	return nil
}

// Release puts quantity units back into stock.
func (p *Product) Release(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	return nil
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Clone returns an independent copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
