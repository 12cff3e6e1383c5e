package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access is the authentication a route requires.
type Access int

const (
	Public Access = iota
	Customer
	Admin
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Access selects the auth middleware placed in front of HandlerFunc.
	Access Access
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine registers every route on router. Middleware must already be attached
// to router, gin copies the chain at registration time.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := handleFunctions.Auth.chain(route.Access, route.HandlerFunc)
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	return router
}

// Default handler for not yet implemented routes
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	Auth AuthMiddleware

	HealthAPI   HealthAPI
	CatalogAPI  CatalogAPI
	AuthAPI     AuthAPI
	CartAPI     CartAPI
	CheckoutAPI CheckoutAPI
	OrderAPI    OrderAPI
	AdminAPI    AdminAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Public, handleFunctions.HealthAPI.Healthz},

		{"ListProducts", http.MethodGet, "/api/products", Public, handleFunctions.CatalogAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/api/products/:productId", Public, handleFunctions.CatalogAPI.GetProduct},
		{"CreateProduct", http.MethodPost, "/api/products", Admin, handleFunctions.CatalogAPI.CreateProduct},
		{"UpdateProduct", http.MethodPut, "/api/products/:productId", Admin, handleFunctions.CatalogAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/api/products/:productId", Admin, handleFunctions.CatalogAPI.DeleteProduct},
		{"BulkAdjustStock", http.MethodPut, "/api/admin/inventory", Admin, handleFunctions.CatalogAPI.BulkAdjustStock},
		{"LowStock", http.MethodGet, "/api/admin/inventory/low-stock", Admin, handleFunctions.CatalogAPI.LowStock},

		{"Register", http.MethodPost, "/api/auth/register", Public, handleFunctions.AuthAPI.Register},
		{"Login", http.MethodPost, "/api/auth/login", Public, handleFunctions.AuthAPI.Login},
		{"Logout", http.MethodPost, "/api/auth/logout", Customer, handleFunctions.AuthAPI.Logout},
		{"Me", http.MethodGet, "/api/auth/me", Customer, handleFunctions.AuthAPI.Me},

		{"GetCart", http.MethodGet, "/api/cart", Customer, handleFunctions.CartAPI.GetCart},
		{"AddCartLine", http.MethodPost, "/api/cart/lines", Customer, handleFunctions.CartAPI.AddLine},
		{"SetCartQuantity", http.MethodPut, "/api/cart/lines/:productId", Customer, handleFunctions.CartAPI.SetQuantity},
		{"RemoveCartLine", http.MethodDelete, "/api/cart/lines/:productId", Customer, handleFunctions.CartAPI.RemoveLine},
		{"ClearCart", http.MethodDelete, "/api/cart", Customer, handleFunctions.CartAPI.Clear},

		{"Checkout", http.MethodPost, "/api/checkout", Customer, handleFunctions.CheckoutAPI.Checkout},

		{"ListMyOrders", http.MethodGet, "/api/orders", Customer, handleFunctions.OrderAPI.ListMyOrders},
		{"GetOrder", http.MethodGet, "/api/orders/:orderId", Customer, handleFunctions.OrderAPI.GetOrder},

		{"ListOrders", http.MethodGet, "/api/admin/orders", Admin, handleFunctions.AdminAPI.ListOrders},
		{"SetOrderStatus", http.MethodPut, "/api/admin/orders/:orderId/status", Admin, handleFunctions.AdminAPI.SetOrderStatus},
		{"Dashboard", http.MethodGet, "/api/admin/dashboard", Admin, handleFunctions.AdminAPI.Dashboard},
		{"Customers", http.MethodGet, "/api/admin/customers", Admin, handleFunctions.AdminAPI.Customers},
	}
}
