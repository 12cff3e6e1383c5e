package storefrontserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	usersapp "github.com/crafty-aquatics/storefront/internal/domains/users/application"
	usersdomain "github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	usersports "github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

const actorKey = "storefront.actor"

// AuthMiddleware resolves Bearer tokens to actors through the users service.
type AuthMiddleware struct {
	users usersports.Service
}

func NewAuthMiddleware(users usersports.Service) AuthMiddleware {
	return AuthMiddleware{users: users}
}

// Authenticate rejects requests without a live session and stores the actor on the context.
func (m AuthMiddleware) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		problems.Unauthorized(c, "a Bearer token is required")
		return
	}
	if m.users == nil {
		problems.Unauthorized(c, "authentication is not configured")
		return
	}
	actor, err := m.users.Authenticate(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, usersapp.ErrAuthentication) || errors.Is(err, usersports.ErrUnauthenticated) {
			problems.Unauthorized(c, "token is invalid or the session has ended")
			return
		}
		respondError(c, err)
		return
	}
	c.Set(actorKey, actor)
	c.Next()
}

// RequireAdmin must run after Authenticate.
func (m AuthMiddleware) RequireAdmin(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		problems.Unauthorized(c, "a Bearer token is required")
		return
	}
	if !actor.IsAdmin() {
		problems.Forbidden(c, "admin role required")
		return
	}
	c.Next()
}

func (m AuthMiddleware) chain(access Access, handler gin.HandlerFunc) []gin.HandlerFunc {
	switch access {
	case Customer:
		return []gin.HandlerFunc{m.Authenticate, handler}
	case Admin:
		return []gin.HandlerFunc{m.Authenticate, m.RequireAdmin, handler}
	default:
		return []gin.HandlerFunc{handler}
	}
}

func actorFrom(c *gin.Context) (usersdomain.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return usersdomain.Actor{}, false
	}
	actor, ok := value.(usersdomain.Actor)
	return actor, ok
}
