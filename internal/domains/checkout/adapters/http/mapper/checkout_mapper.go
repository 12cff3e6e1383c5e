package mapper

import (
	checkoutdomain "github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
)

// IdempotencyKeyHeader carries the client's retry key for a checkout.
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutRequest is the shipping form submitted with a checkout.
type CheckoutRequest struct {
	FullName string `json:"fullName" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address" binding:"required,min=5"`
	City     string `json:"city" binding:"required,min=2"`
	State    string `json:"state" binding:"required,min=2"`
	ZipCode  string `json:"zipCode" binding:"required,min=5"`
}

// ToShippingForm converts the request body into the domain form.
func ToShippingForm(req CheckoutRequest) checkoutdomain.ShippingForm {
	return checkoutdomain.ShippingForm{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
	}
}

// ToCheckoutInput validates the form and builds the checkout command for userID.
// idempotencyKey may be empty.
func ToCheckoutInput(userID, idempotencyKey string, req CheckoutRequest) (checkoutports.CheckoutInput, error) {
	form := ToShippingForm(req)
	if err := form.Validate(); err != nil {
		return checkoutports.CheckoutInput{}, err
	}
	key, err := checkoutdomain.NormalizeIdempotencyKey(idempotencyKey)
	if err != nil {
		return checkoutports.CheckoutInput{}, err
	}
	return checkoutports.CheckoutInput{UserID: userID, Address: form.FormatAddress(), IdempotencyKey: key}, nil
}
