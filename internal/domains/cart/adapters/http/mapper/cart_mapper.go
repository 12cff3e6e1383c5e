package mapper

import (
	"github.com/shopspring/decimal"

	cartdomain "github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
	catalogmapper "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/http/mapper"
)

// AddLine is the add-to-cart body. A missing quantity adds one unit.
type AddLine struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// SetQuantity is the quantity edit body. Zero removes the line.
type SetQuantity struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// Line is the HTTP representation of a cart line.
type Line struct {
	Product      catalogmapper.Product `json:"product"`
	Quantity     int                   `json:"quantity"`
	LineTotal    decimal.Decimal       `json:"lineTotal"`
	Unavailable  bool                  `json:"unavailable"`
	ExceedsStock bool                  `json:"exceedsStock"`
}

// Cart is the HTTP representation of a cart with its recomputed subtotal.
type Cart struct {
	Lines     []Line          `json:"lines"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// FromDomainCart converts a domain cart to the transport representation.
func FromDomainCart(cart *cartdomain.Cart) Cart {
	if cart == nil {
		return Cart{Lines: []Line{}, Subtotal: decimal.Zero}
	}
	out := Cart{Lines: make([]Line, 0, len(cart.Lines)), ItemCount: cart.ItemCount(), Subtotal: cart.Subtotal()}
	for i := range cart.Lines {
		l := cart.Lines[i]
		out.Lines = append(out.Lines, Line{
			Product:      catalogmapper.FromDomainProduct(&l.Product),
			Quantity:     l.Quantity,
			LineTotal:    l.LineTotal(),
			Unavailable:  l.Unavailable,
			ExceedsStock: l.ExceedsStock,
		})
	}
	return out
}
