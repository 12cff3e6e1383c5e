package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutmapper "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/http/mapper"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersmapper "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/http/mapper"
)

// CheckoutAPI turns the caller's cart into an order through the configured orchestrator.
type CheckoutAPI struct {
	orchestrator checkoutports.Orchestrator
}

func NewCheckoutAPI(orchestrator checkoutports.Orchestrator) CheckoutAPI {
	return CheckoutAPI{orchestrator: orchestrator}
}

// Post /api/checkout
// A repeated request with the same Idempotency-Key header returns the order of the first one.
func (api *CheckoutAPI) Checkout(c *gin.Context) {
	actor, _ := actorFrom(c)
	var req checkoutmapper.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	input, err := checkoutmapper.ToCheckoutInput(actor.ID, c.GetHeader(checkoutmapper.IdempotencyKeyHeader), req)
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := api.orchestrator.Checkout(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordersmapper.FromDomainOrder(order))
}
