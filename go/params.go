package storefrontserver

import (
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ListProductsParams defines parameters for ListProducts.
type ListProductsParams struct {
	Category *string `form:"category,omitempty" json:"category,omitempty"`
	Q        *string `form:"q,omitempty" json:"q,omitempty"`
	Sort     *string `form:"sort,omitempty" json:"sort,omitempty"`
}

// LowStockParams defines parameters for LowStock.
type LowStockParams struct {
	Threshold *int `form:"threshold,omitempty" json:"threshold,omitempty"`
}

// AdminOrdersParams defines parameters for ListOrders.
type AdminOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Q      *string `form:"q,omitempty" json:"q,omitempty"`
}

// CustomersParams defines parameters for Customers.
type CustomersParams struct {
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// bindPathParam binds a required simple-style path parameter. On failure it has already responded.
func bindPathParam(c *gin.Context, name string, dest any) bool {
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), dest)
	if err != nil {
		problems.BadRequest(c, "invalid format for parameter "+name+": "+err.Error())
		return false
	}
	return true
}

// bindQueryParam binds an optional form-style query parameter; dest is a pointer to a pointer field.
func bindQueryParam(c *gin.Context, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), dest); err != nil {
		problems.BadRequest(c, "invalid format for parameter "+name+": "+err.Error())
		return false
	}
	return true
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
