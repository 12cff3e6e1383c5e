package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersmapper "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/http/mapper"
	usersports "github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

// AuthAPI implements account sign-up and the login session endpoints.
type AuthAPI struct {
	service usersports.Service
}

func NewAuthAPI(service usersports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /api/auth/register
func (api *AuthAPI) Register(c *gin.Context) {
	var req usersmapper.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), usersmapper.ToRegisterInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usersmapper.FromDomainUser(user))
}

// Post /api/auth/login
// Exchanges credentials for a Bearer token; a new login ends the previous session
func (api *AuthAPI) Login(c *gin.Context) {
	var req usersmapper.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usersmapper.FromSession(session))
}

// Post /api/auth/logout
func (api *AuthAPI) Logout(c *gin.Context) {
	actor, _ := actorFrom(c)
	if err := api.service.Logout(c.Request.Context(), actor.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/auth/me
func (api *AuthAPI) Me(c *gin.Context) {
	actor, _ := actorFrom(c)
	user, err := api.service.GetUser(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usersmapper.FromDomainUser(user))
}
