package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidShipping is returned when the shipping form is incomplete.
var ErrInvalidShipping = errors.New("shipping details are invalid")

var validate = validator.New()

// ShippingForm is what the customer enters at checkout. Payment is always cash on delivery.
type ShippingForm struct {
	FullName string `json:"fullName" validate:"min=3"`
	Email    string `json:"email" validate:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address" validate:"min=5"`
	City     string `json:"city" validate:"min=2"`
	State    string `json:"state" validate:"min=2"`
	ZipCode  string `json:"zipCode" validate:"min=5"`
}

// Normalize trims every field.
func (f ShippingForm) Normalize() ShippingForm {
	return ShippingForm{
		FullName: strings.TrimSpace(f.FullName),
		Email:    strings.TrimSpace(f.Email),
		Phone:    strings.TrimSpace(f.Phone),
		Address:  strings.TrimSpace(f.Address),
		City:     strings.TrimSpace(f.City),
		State:    strings.TrimSpace(f.State),
		ZipCode:  strings.TrimSpace(f.ZipCode),
	}
}

// Validate checks the trimmed form. The first failing field is named in the error.
func (f ShippingForm) Validate() error {
	err := validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "min" {
			return fmt.Errorf("%w: %s must be at least %s characters", ErrInvalidShipping, lowerFirst(fe.Field()), fe.Param())
		}
		return fmt.Errorf("%w: %s is invalid", ErrInvalidShipping, lowerFirst(fe.Field()))
	}
	return fmt.Errorf("%w: %w", ErrInvalidShipping, err)
}

// FormatAddress renders the single-line shipping address stored on the order.
func (f ShippingForm) FormatAddress() string {
	n := f.Normalize()
	return fmt.Sprintf("%s, %s, %s %s", n.Address, n.City, n.State, n.ZipCode)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
