package sequences

import (
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutdomain "github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	checkoutactivities "github.com/crafty-aquatics/storefront/internal/platform/temporal/activities/checkout"
)

// RunCheckoutSequence reserves stock, places the order and clears the cart, releasing the
// reservation if placement fails. The order id is fixed once per workflow so retried
// activities reserve and place under the same key.
func RunCheckoutSequence(ctx workflow.Context, input checkoutports.CheckoutInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout sequence started", "userId", input.UserID)
	if input.OrderID == "" {
		encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} { return uuid.NewString() })
		if err := encoded.Get(&input.OrderID); err != nil {
			return nil, err
		}
	}
	stepOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, stepOptions)

	var plan checkoutdomain.Plan
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.PrepareActivityName, input).Get(ctx, &plan); err != nil {
		logger.Error("checkout sequence prepare failed", "userId", input.UserID, "error", err)
		return nil, err
	}

	var order ordersdomain.Order
	if plan.Replay {
		// The key already produced an order; Place returns it without writing.
		replayInput := checkoutactivities.PlaceInput{Plan: plan}
		if err := workflow.ExecuteActivity(ctx, checkoutactivities.PlaceActivityName, replayInput).Get(ctx, &order); err != nil {
			return nil, err
		}
		logger.Info("checkout sequence replayed order", "orderId", order.ID)
		return &order, nil
	}

	var lines []ordersdomain.Line
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.ReserveActivityName, plan).Get(ctx, &lines); err != nil {
		logger.Error("checkout sequence reserve failed", "userId", input.UserID, "error", err)
		return nil, err
	}

	placeInput := checkoutactivities.PlaceInput{Plan: plan, Lines: lines}
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.PlaceActivityName, placeInput).Get(ctx, &order); err != nil {
		logger.Error("checkout sequence place failed, releasing stock", "userId", input.UserID, "error", err)
		if releaseErr := workflow.ExecuteActivity(ctx, checkoutactivities.ReleaseActivityName, plan).Get(ctx, nil); releaseErr != nil {
			logger.Error("checkout sequence release failed", "userId", input.UserID, "error", releaseErr)
		}
		return nil, err
	}
	logger.Info("checkout sequence placed order", "orderId", order.ID)

	if err := workflow.ExecuteActivity(ctx, checkoutactivities.ClearCartActivityName, plan.UserID).Get(ctx, nil); err != nil {
		logger.Warn("checkout sequence could not clear cart", "userId", input.UserID, "error", err)
	}
	return &order, nil
}
