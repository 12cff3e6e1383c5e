package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/crafty-aquatics/storefront/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/crafty-aquatics/storefront/internal/domains/cart/ports"
)

// CartAPI serves the signed-in user's cart. The owner is always the authenticated actor.
type CartAPI struct {
	service cartports.Service
}

func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /api/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	actor, _ := actorFrom(c)
	cart, err := api.service.GetCart(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
}

// Post /api/cart/lines
// Adds quantity of a product, merging with an existing line
func (api *CartAPI) AddLine(c *gin.Context) {
	actor, _ := actorFrom(c)
	var req cartmapper.AddLine
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := api.service.AddLine(c.Request.Context(), actor.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
}

// Put /api/cart/lines/:productId
// Sets an absolute quantity; zero removes the line
func (api *CartAPI) SetQuantity(c *gin.Context) {
	actor, _ := actorFrom(c)
	var productID string
	if !bindPathParam(c, "productId", &productID) {
		return
	}
	var req cartmapper.SetQuantity
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := api.service.SetQuantity(c.Request.Context(), actor.ID, productID, deref(req.Quantity))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
}

// Delete /api/cart/lines/:productId
func (api *CartAPI) RemoveLine(c *gin.Context) {
	actor, _ := actorFrom(c)
	var productID string
	if !bindPathParam(c, "productId", &productID) {
		return
	}
	cart, err := api.service.RemoveLine(c.Request.Context(), actor.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
}

// Delete /api/cart
func (api *CartAPI) Clear(c *gin.Context) {
	actor, _ := actorFrom(c)
	if err := api.service.Clear(c.Request.Context(), actor.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
