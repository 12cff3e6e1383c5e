package checkout

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/workflow"

	checkoutactivities "github.com/crafty-aquatics/storefront/internal/platform/temporal/activities/checkout"
)

// Registry is satisfied by worker.Worker and the SDK test environment.
type Registry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

// Register adds the checkout workflow and its activities to r.
func Register(r Registry, acts *checkoutactivities.Activities) {
	r.RegisterWorkflowWithOptions(CheckoutWorkflow, workflow.RegisterOptions{Name: CheckoutWorkflowName})
	r.RegisterActivityWithOptions(acts.Prepare, activity.RegisterOptions{Name: checkoutactivities.PrepareActivityName})
	r.RegisterActivityWithOptions(acts.Reserve, activity.RegisterOptions{Name: checkoutactivities.ReserveActivityName})
	r.RegisterActivityWithOptions(acts.Place, activity.RegisterOptions{Name: checkoutactivities.PlaceActivityName})
	r.RegisterActivityWithOptions(acts.Release, activity.RegisterOptions{Name: checkoutactivities.ReleaseActivityName})
	r.RegisterActivityWithOptions(acts.ClearCart, activity.RegisterOptions{Name: checkoutactivities.ClearCartActivityName})
}
