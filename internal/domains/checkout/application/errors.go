package application

import (
	"errors"
	"fmt"

	"github.com/crafty-aquatics/storefront/internal/domains/checkout/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
)

var (
	// ErrInvalidInput signals a malformed checkout request.
	ErrInvalidInput = errors.New("invalid checkout input")
	// ErrConflict signals the cart cannot be checked out in its current state.
	ErrConflict = errors.New("checkout conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingUser) || errors.Is(err, domain.ErrInvalidShipping) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrUnavailableLines) ||
		errors.Is(err, ports.ErrIdempotencyConflict) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
