package storefrontserver

import (
	"github.com/gin-gonic/gin"

	backofficeapp "github.com/crafty-aquatics/storefront/internal/domains/backoffice/application"
	cartapp "github.com/crafty-aquatics/storefront/internal/domains/cart/application"
	cartdomain "github.com/crafty-aquatics/storefront/internal/domains/cart/domain"
	catalogapp "github.com/crafty-aquatics/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	checkoutapp "github.com/crafty-aquatics/storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersapp "github.com/crafty-aquatics/storefront/internal/domains/orders/application"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	usersapp "github.com/crafty-aquatics/storefront/internal/domains/users/application"
	usersports "github.com/crafty-aquatics/storefront/internal/domains/users/ports"
	apierrors "github.com/crafty-aquatics/storefront/internal/shared/errors"
)

// problems maps every bounded context's sentinels onto RFC 7807 responses.
var problems = apierrors.NewChainedResponder("",
	apierrors.MapSentinels(apierrors.ErrValidation,
		catalogapp.ErrInvalidInput,
		cartapp.ErrInvalidInput,
		ordersapp.ErrInvalidInput,
		checkoutapp.ErrInvalidInput,
		checkoutdomain.ErrInvalidShipping,
		checkoutdomain.ErrInvalidIdempotencyKey,
		usersapp.ErrInvalidInput,
		backofficeapp.ErrInvalidInput,
	),
	apierrors.MapSentinels(apierrors.ErrUnauthorized,
		usersapp.ErrAuthentication,
		usersports.ErrInvalidCredentials,
		usersports.ErrUnauthenticated,
	),
	apierrors.MapSentinels(apierrors.ErrNotFound,
		catalogports.ErrNotFound,
		ordersports.ErrNotFound,
		usersports.ErrNotFound,
	),
	apierrors.MapSentinels(apierrors.ErrConflict,
		cartdomain.ErrExceedsStock,
		catalogdomain.ErrInsufficientStock,
		ordersdomain.ErrInvalidTransition,
		usersports.ErrEmailTaken,
		checkoutdomain.ErrEmptyCart,
		checkoutdomain.ErrUnavailableLines,
		checkoutports.ErrIdempotencyConflict,
		catalogapp.ErrConflict,
		ordersapp.ErrConflict,
		checkoutapp.ErrConflict,
	),
)

// respondError answers with the problem mapped from err.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

// respondBindError answers a body or parameter binding failure with 400.
// Validator failures carry per-field messages.
func respondBindError(c *gin.Context, err error) {
	if fields := apierrors.FieldErrors(err); fields != nil {
		problems.Respond(c, apierrors.NewValidationProblem("request failed validation", fields))
		return
	}
	problems.BadRequest(c, err.Error())
}
