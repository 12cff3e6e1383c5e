package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	backofficemapper "github.com/crafty-aquatics/storefront/internal/domains/backoffice/adapters/http/mapper"
	backofficeports "github.com/crafty-aquatics/storefront/internal/domains/backoffice/ports"
	ordersmapper "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
)

// AdminAPI implements the backoffice pages and order fulfilment.
type AdminAPI struct {
	backoffice backofficeports.Service
	orders     ordersports.Service
}

func NewAdminAPI(backoffice backofficeports.Service, orders ordersports.Service) AdminAPI {
	return AdminAPI{backoffice: backoffice, orders: orders}
}

// Get /api/admin/orders
// Lists every order, filtered by status ("all" for none) and by order or user id
func (api *AdminAPI) ListOrders(c *gin.Context) {
	var params AdminOrdersParams
	if !bindQueryParam(c, "status", &params.Status) || !bindQueryParam(c, "q", &params.Q) {
		return
	}
	orders, err := api.backoffice.Orders(c.Request.Context(), deref(params.Status), deref(params.Q))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromDomainOrders(orders))
}

// Put /api/admin/orders/:orderId/status
func (api *AdminAPI) SetOrderStatus(c *gin.Context) {
	var id string
	if !bindPathParam(c, "orderId", &id) {
		return
	}
	var req ordersmapper.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	status, err := ordersmapper.ToDomainStatus(req)
	if err != nil {
		problems.BadRequest(c, err.Error())
		return
	}
	order, err := api.orders.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromDomainOrder(order))
}

// Get /api/admin/dashboard
func (api *AdminAPI) Dashboard(c *gin.Context) {
	dashboard, err := api.backoffice.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, backofficemapper.FromDashboard(dashboard))
}

// Get /api/admin/customers
func (api *AdminAPI) Customers(c *gin.Context) {
	var params CustomersParams
	if !bindQueryParam(c, "q", &params.Q) {
		return
	}
	customers, err := api.backoffice.Customers(c.Request.Context(), deref(params.Q))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, backofficemapper.FromCustomers(customers))
}
