package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
)

var (
	ErrMissingOwner    = errors.New("cart owner is required")
	ErrInvalidQuantity = errors.New("quantity cannot be negative")
	ErrExceedsStock    = errors.New("quantity exceeds available stock")
)

// Line is one product in a cart. Product is a snapshot taken when the line was last touched
// and refreshed from the catalog whenever the cart is read.
type Line struct {
	Product      catalogdomain.Product
	Quantity     int
	Unavailable  bool
	ExceedsStock bool
}

// Refresh swaps the snapshot for the current product and flags a quantity above its stock.
func (l *Line) Refresh(product catalogdomain.Product) {
	l.Product = product
	l.Unavailable = false
	l.ExceedsStock = l.Quantity > product.Stock
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the per-owner shopping cart. Lines keep insertion order and a product appears at most once.
type Cart struct {
	OwnerID string
	Lines   []Line
}

// New returns an empty cart for owner.
func New(ownerID string) (*Cart, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	return &Cart{OwnerID: ownerID, Lines: []Line{}}, nil
}

// Add puts quantity units of product into the cart. A zero quantity means one.
// The cart is unchanged when the resulting quantity would exceed the product stock.
func (c *Cart) Add(product catalogdomain.Product, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}
	i := c.indexOf(product.ID)
	if i < 0 {
		if quantity > product.Stock {
			return exceeds(product, quantity)
		}
		c.Lines = append(c.Lines, Line{Product: product, Quantity: quantity})
		return nil
	}
	total := c.Lines[i].Quantity + quantity
	if total > product.Stock {
		return exceeds(product, total)
	}
	c.Lines[i] = Line{Product: product, Quantity: total}
	return nil
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (c *Cart) Remove(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// SetQuantity replaces the quantity of an existing line. Zero or less removes it;
// products not in the cart are ignored.
func (c *Cart) SetQuantity(product catalogdomain.Product, quantity int) (bool, error) {
	i := c.indexOf(product.ID)
	if i < 0 {
		return false, nil
	}
	if quantity <= 0 {
		return c.Remove(product.ID), nil
	}
	if quantity > product.Stock {
		return false, exceeds(product, quantity)
	}
	c.Lines[i] = Line{Product: product, Quantity: quantity}
	return true, nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = []Line{}
}

// Has reports whether productID has a line.
func (c *Cart) Has(productID string) bool {
	return c.indexOf(productID) >= 0
}

// Subtotal sums price times quantity over every line.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// ItemCount is the total number of units in the cart.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// HasUnavailable reports whether any line points at a product that no longer exists.
func (c *Cart) HasUnavailable() bool {
	for _, l := range c.Lines {
		if l.Unavailable {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns an independent copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := &Cart{OwnerID: c.OwnerID, Lines: make([]Line, len(c.Lines))}
	copy(clone.Lines, c.Lines)
	return clone
}

func (c *Cart) indexOf(productID string) int {
	for i, l := range c.Lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func exceeds(product catalogdomain.Product, quantity int) error {
	return fmt.Errorf("%w: %q has %d in stock, requested %d", ErrExceedsStock, product.Name, product.Stock, quantity)
}
