package application

import (
	"errors"
	"fmt"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrConflict signals the request is valid but cannot be applied to current stock.
	ErrConflict = errors.New("catalog conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrDuplicateProduct) ||
		errors.Is(err, domain.ErrInvalidSort) ||
		errors.Is(err, domain.ErrInvalidImage) ||
		errors.Is(err, domain.ErrImageTooLarge) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrUnknownProduct) && !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
