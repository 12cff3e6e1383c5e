package ports

import (
	"context"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	checkoutdomain "github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

// CheckoutInput identifies whose cart to check out and where to ship it.
// IdempotencyKey is the client's retry key; OrderID pins the id of the order to create.
type CheckoutInput struct {
	UserID         string
	Address        string
	IdempotencyKey string
	OrderID        string
}

// Orchestrator runs a checkout to completion, either in-process or durably.
type Orchestrator interface {
	Checkout(ctx context.Context, input CheckoutInput) (*ordersdomain.Order, error)
}

// Steps are the individual checkout stages. Durable orchestrators run each one as an activity.
type Steps interface {
	Prepare(ctx context.Context, input CheckoutInput) (*checkoutdomain.Plan, error)
	Reserve(ctx context.Context, plan *checkoutdomain.Plan) ([]ordersdomain.Line, error)
	Place(ctx context.Context, plan *checkoutdomain.Plan, lines []ordersdomain.Line) (*ordersdomain.Order, error)
	Release(ctx context.Context, plan *checkoutdomain.Plan) error
	ClearCart(ctx context.Context, userID string) error
}

// StockReserver is the slice of the catalog checkout needs. Reservations are keyed by order id.
type StockReserver interface {
	ReserveStock(ctx context.Context, key string, reservations []catalogdomain.StockReservation) ([]*catalogdomain.Product, error)
	ReleaseStock(ctx context.Context, key string, reservations []catalogdomain.StockReservation) error
}
