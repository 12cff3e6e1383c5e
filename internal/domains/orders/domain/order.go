package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

// PaymentMethod is how the customer settles the order.
type PaymentMethod string

const PaymentCashOnDelivery PaymentMethod = "cashOnDelivery"

var (
	ErrNoLines           = errors.New("order must have at least one line")
	ErrMissingUser       = errors.New("order user is required")
	ErrMissingAddress    = errors.New("shipping address is required")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status cannot move backwards")
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}
}

// ParseStatus normalizes raw input into a known status.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if status.rank() < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool { return s.rank() >= 0 }

func (s Status) rank() int {
	for i, candidate := range Statuses() {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Line is one purchased product. Product is a snapshot frozen at checkout.
type Line struct {
	Product  catalogdomain.Product
	Quantity int
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order models the placed purchase aggregate. Total is fixed when the order is created.
type Order struct {
	ID            string
	UserID        string
	Lines         []Line
	Total         decimal.Decimal
	Status        Status
	CreatedAt     time.Time
	Address       string
	PaymentMethod PaymentMethod
}

// NewOrder validates the lines and builds a pending cash-on-delivery order.
func NewOrder(id, userID string, lines []Line, address string, createdAt time.Time) (*Order, error) {
	order := &Order{
		ID:            id,
		UserID:        strings.TrimSpace(userID),
		Lines:         append([]Line(nil), lines...),
		Status:        StatusPending,
		CreatedAt:     createdAt.UTC(),
		Address:       strings.TrimSpace(address),
		PaymentMethod: PaymentCashOnDelivery,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.Total = SumLines(order.Lines)
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if len(o.Lines) == 0 {
		return ErrNoLines
	}
	if o.UserID == "" {
		return ErrMissingUser
	}
	if o.Address == "" {
		return ErrMissingAddress
	}
	for _, l := range o.Lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: product %s", ErrInvalidQuantity, l.Product.ID)
		}
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus moves the order forward. Repeating the current status is a no-op;
// moving backwards is rejected.
func (o *Order) UpdateStatus(status Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	if status == o.Status {
		return false, nil
	}
	if status.rank() < o.Status.rank() {
		return false, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, status)
	}
	o.Status = status
	return true, nil
}

// ItemCount is the total number of units ordered.
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// Clone returns an independent copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = append([]Line(nil), o.Lines...)
	return &clone
}

// SumLines totals price times quantity over lines.
func SumLines(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
