package storefrontserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/http/mapper"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

// CatalogAPI wires HTTP transport with the catalog bounded context.
type CatalogAPI struct {
	service catalogports.Service
}

func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /api/products
// Lists products filtered by category and search text, optionally sorted
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	var params ListProductsParams
	if !bindQueryParam(c, "category", &params.Category) ||
		!bindQueryParam(c, "q", &params.Q) ||
		!bindQueryParam(c, "sort", &params.Sort) {
		return
	}
	query := catalogdomain.ListQuery{
		Category: catalogdomain.Category(strings.ToLower(strings.TrimSpace(deref(params.Category)))),
		Search:   deref(params.Q),
		Sort:     catalogdomain.SortKey(deref(params.Sort)),
	}
	products, err := api.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProducts(products))
}

// Get /api/products/:productId
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	var id string
	if !bindPathParam(c, "productId", &id) {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProduct(product))
}

// Post /api/products
// Adds a product to the catalog (admin)
func (api *CatalogAPI) CreateProduct(c *gin.Context) {
	var payload catalogmapper.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), catalogmapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromDomainProduct(product))
}

// Put /api/products/:productId
// Replaces the editable fields of a product (admin)
func (api *CatalogAPI) UpdateProduct(c *gin.Context) {
	var id string
	if !bindPathParam(c, "productId", &id) {
		return
	}
	var payload catalogmapper.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), catalogmapper.ToDomainProduct(id, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProduct(product))
}

// Delete /api/products/:productId
func (api *CatalogAPI) DeleteProduct(c *gin.Context) {
	var id string
	if !bindPathParam(c, "productId", &id) {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Put /api/admin/inventory
// Applies a batch of absolute stock levels; all or nothing
func (api *CatalogAPI) BulkAdjustStock(c *gin.Context) {
	var batch catalogmapper.StockUpdateBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		respondBindError(c, err)
		return
	}
	changes, err := api.service.BulkAdjustStock(c.Request.Context(), catalogmapper.ToStockUpdates(batch))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromStockChanges(changes))
}

// Get /api/admin/inventory/low-stock
func (api *CatalogAPI) LowStock(c *gin.Context) {
	var params LowStockParams
	if !bindQueryParam(c, "threshold", &params.Threshold) {
		return
	}
	products, err := api.service.LowStock(c.Request.Context(), deref(params.Threshold))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProducts(products))
}
