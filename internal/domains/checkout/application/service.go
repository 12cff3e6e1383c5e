package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	cartports "github.com/crafty-aquatics/storefront/internal/domains/cart/ports"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
)

var (
	_ ports.Steps        = (*Service)(nil)
	_ ports.Orchestrator = (*Service)(nil)
)

// Service runs the reserve-and-commit checkout sequence over the cart, catalog and order stores.
type Service struct {
	carts        cartports.Service
	stock        ports.StockReserver
	orders       ordersports.Service
	idempotency  ports.IdempotencyStore
	reserveStock bool
	newID        func() string
	logger       *slog.Logger
}

type Option func(*Service)

// WithStockReservation toggles the reserve step. Disabled, checkout never decrements stock.
func WithStockReservation(enabled bool) Option {
	return func(s *Service) {
		s.reserveStock = enabled
	}
}

// WithIdempotencyStore lets callers retry a checkout under an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		if store != nil {
			s.idempotency = store
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(carts cartports.Service, stock ports.StockReserver, orders ordersports.Service, opts ...Option) *Service {
	s := &Service{
		carts:        carts,
		stock:        stock,
		orders:       orders,
		reserveStock: true,
		newID:        uuid.NewString,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Checkout turns the user's cart into a pending order.
func (s *Service) Checkout(ctx context.Context, input ports.CheckoutInput) (*ordersdomain.Order, error) {
	plan, err := s.Prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	if plan.Replay {
		return s.orders.GetOrder(ctx, plan.OrderID)
	}
	lines, err := s.Reserve(ctx, plan)
	if err != nil {
		return nil, err
	}
	order, err := s.Place(ctx, plan, lines)
	if err != nil {
		if releaseErr := s.Release(ctx, plan); releaseErr != nil {
			s.logger.ErrorContext(ctx, "failed to release reserved stock",
				slog.String("user.id", plan.UserID), slog.String("error", releaseErr.Error()))
			return nil, errors.Join(err, releaseErr)
		}
		return nil, err
	}
	if err := s.ClearCart(ctx, plan.UserID); err != nil {
		s.logger.WarnContext(ctx, "order placed but cart was not cleared",
			slog.String("order.id", order.ID), slog.String("error", err.Error()))
	}
	return order, nil
}

// Prepare fixes the order id and freezes the cart into a plan. Under an idempotency key the
// order id comes from the stored record, and a key whose order exists yields a replay plan.
func (s *Service) Prepare(ctx context.Context, input ports.CheckoutInput) (*domain.Plan, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, mapError(domain.ErrMissingUser)
	}
	plan := &domain.Plan{UserID: userID, Address: strings.TrimSpace(input.Address), OrderID: strings.TrimSpace(input.OrderID)}
	if plan.OrderID == "" {
		plan.OrderID = s.newID()
	}
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" && s.idempotency != nil {
		orderID, err := s.claimKey(ctx, userID, key, plan)
		if err != nil {
			return nil, err
		}
		plan.OrderID = orderID
		existing, err := s.orders.GetOrder(ctx, orderID)
		switch {
		case err == nil && existing.UserID == userID:
			plan.Replay = true
			return plan, nil
		case err == nil:
			return nil, mapError(ports.ErrIdempotencyConflict)
		case !errors.Is(err, ordersports.ErrNotFound):
			return nil, err
		}
	}
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, mapError(domain.ErrEmptyCart)
	}
	if cart.HasUnavailable() {
		return nil, mapError(domain.ErrUnavailableLines)
	}
	for _, l := range cart.Lines {
		plan.Reservations = append(plan.Reservations, catalogdomain.StockReservation{ProductID: l.Product.ID, Quantity: l.Quantity})
		plan.Lines = append(plan.Lines, ordersdomain.Line{Product: l.Product, Quantity: l.Quantity})
	}
	return plan, nil
}

// Reserve decrements stock for every planned line at once and returns lines priced at reservation time.
func (s *Service) Reserve(ctx context.Context, plan *domain.Plan) ([]ordersdomain.Line, error) {
	if !s.reserveStock {
		return plan.Lines, nil
	}
	products, err := s.stock.ReserveStock(ctx, plan.OrderID, plan.Reservations)
	if err != nil {
		return nil, err
	}
	return plan.LinesFromProducts(products), nil
}

// Place records the order from the reserved lines.
func (s *Service) Place(ctx context.Context, plan *domain.Plan, lines []ordersdomain.Line) (*ordersdomain.Order, error) {
	return s.orders.Place(ctx, ordersports.PlaceInput{ID: plan.OrderID, UserID: plan.UserID, Lines: lines, Address: plan.Address})
}

// Release undoes Reserve.
func (s *Service) Release(ctx context.Context, plan *domain.Plan) error {
	if !s.reserveStock {
		return nil
	}
	return s.stock.ReleaseStock(ctx, plan.OrderID, plan.Reservations)
}

// claimKey stores the key with the plan's order id, or returns the order id stored by an earlier attempt.
func (s *Service) claimKey(ctx context.Context, userID, key string, plan *domain.Plan) (string, error) {
	hash, err := FingerprintCheckout(userID, plan.Address)
	if err != nil {
		return "", err
	}
	record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         idempotencyKey(userID, key),
		RequestHash: hash,
		OrderID:     plan.OrderID,
	})
	if err != nil {
		return "", mapError(err)
	}
	return record.OrderID, nil
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}
