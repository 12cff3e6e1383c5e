package application

import (
	"errors"
	"fmt"

	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrConflict signals the order cannot take the requested change in its current state.
	ErrConflict = errors.New("order conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoLines) ||
		errors.Is(err, domain.ErrMissingUser) ||
		errors.Is(err, domain.ErrMissingAddress) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
