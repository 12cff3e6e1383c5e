package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ordersmapper "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
)

// OrderAPI serves a customer's own order history.
type OrderAPI struct {
	service ordersports.Service
}

func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Get /api/orders
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	actor, _ := actorFrom(c)
	orders, err := api.service.ListByUser(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromDomainOrders(orders))
}

// Get /api/orders/:orderId
// Another customer's order answers 404 so ids cannot be probed.
func (api *OrderAPI) GetOrder(c *gin.Context) {
	actor, _ := actorFrom(c)
	var id string
	if !bindPathParam(c, "orderId", &id) {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order.UserID != actor.ID && !actor.IsAdmin() {
		respondError(c, ordersports.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromDomainOrder(order))
}
