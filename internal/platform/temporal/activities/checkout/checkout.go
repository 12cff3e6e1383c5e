package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	checkoutapp "github.com/crafty-aquatics/storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersapp "github.com/crafty-aquatics/storefront/internal/domains/orders/application"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

const (
	PrepareActivityName   = "checkout.activities.Prepare"
	ReserveActivityName   = "checkout.activities.Reserve"
	PlaceActivityName     = "checkout.activities.Place"
	ReleaseActivityName   = "checkout.activities.Release"
	ClearCartActivityName = "checkout.activities.ClearCart"
)

// PlaceInput carries the plan and the reserved lines into the Place activity.
type PlaceInput struct {
	Plan  checkoutdomain.Plan
	Lines []ordersdomain.Line
}

// Activities exposes the checkout steps to a Temporal worker.
type Activities struct {
	steps checkoutports.Steps
}

func NewActivities(steps checkoutports.Steps) *Activities {
	return &Activities{steps: steps}
}

// Prepare freezes the user's cart into a plan.
func (a *Activities) Prepare(ctx context.Context, input checkoutports.CheckoutInput) (*checkoutdomain.Plan, error) {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return nil, err
	}
	logger.Info("Prepare activity started", "userId", input.UserID)
	plan, err := a.steps.Prepare(ctx, input)
	if err != nil {
		logger.Error("Prepare activity failed", "userId", input.UserID, "error", err)
		return nil, asApplicationError(err)
	}
	logger.Info("Prepare activity completed", "userId", input.UserID, "lines", len(plan.Lines))
	return plan, nil
}

// Reserve decrements stock for every planned line.
func (a *Activities) Reserve(ctx context.Context, plan checkoutdomain.Plan) ([]ordersdomain.Line, error) {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return nil, err
	}
	logger.Info("Reserve activity started", "userId", plan.UserID, "lines", len(plan.Reservations))
	lines, err := a.steps.Reserve(ctx, &plan)
	if err != nil {
		logger.Error("Reserve activity failed", "userId", plan.UserID, "error", err)
		return nil, asApplicationError(err)
	}
	logger.Info("Reserve activity completed", "userId", plan.UserID)
	return lines, nil
}

// Place records the order.
func (a *Activities) Place(ctx context.Context, input PlaceInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return nil, err
	}
	logger.Info("Place activity started", "userId", input.Plan.UserID)
	order, err := a.steps.Place(ctx, &input.Plan, input.Lines)
	if err != nil {
		logger.Error("Place activity failed", "userId", input.Plan.UserID, "error", err)
		return nil, asApplicationError(err)
	}
	logger.Info("Place activity completed", "orderId", order.ID)
	return order, nil
}

// Release returns reserved stock after a failed placement.
func (a *Activities) Release(ctx context.Context, plan checkoutdomain.Plan) error {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return err
	}
	logger.Info("Release activity started", "userId", plan.UserID)
	if err := a.steps.Release(ctx, &plan); err != nil {
		logger.Error("Release activity failed", "userId", plan.UserID, "error", err)
		return err
	}
	logger.Info("Release activity completed", "userId", plan.UserID)
	return nil
}

func (a *Activities) ClearCart(ctx context.Context, userID string) error {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return err
	}
	if err := a.steps.ClearCart(ctx, userID); err != nil {
		logger.Error("ClearCart activity failed", "userId", userID, "error", err)
		return err
	}
	logger.Info("ClearCart activity completed", "userId", userID)
	return nil
}

func (a *Activities) ready() error {
	if a == nil || a.steps == nil {
		return errors.New("checkout activities not initialized")
	}
	return nil
}

// Business failures are not retried. Their type survives the trip through Temporal so
// callers can map them back with DomainError.
var businessErrors = []struct {
	kind string
	err  error
}{
	{"IdempotencyConflict", checkoutports.ErrIdempotencyConflict},
	{"EmptyCart", checkoutdomain.ErrEmptyCart},
	{"UnavailableLines", checkoutdomain.ErrUnavailableLines},
	{"InvalidCheckout", checkoutapp.ErrInvalidInput},
	{"InsufficientStock", catalogdomain.ErrInsufficientStock},
	{"ProductNotFound", catalogports.ErrNotFound},
	{"InvalidOrder", ordersapp.ErrInvalidInput},
	{"OrderConflict", ordersapp.ErrConflict},
}

func asApplicationError(err error) error {
	for _, b := range businessErrors {
		if errors.Is(err, b.err) {
			return temporal.NewNonRetryableApplicationError(err.Error(), b.kind, err)
		}
	}
	return err
}

// DomainError recovers the sentinel behind an error returned by a checkout workflow.
func DomainError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	for _, b := range businessErrors {
		if appErr.Type() == b.kind {
			return errors.Join(b.err, errors.New(appErr.Error()))
		}
	}
	return err
}
