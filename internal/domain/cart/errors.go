// internal/domain/cart/errors.go
package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated means no identity could be resolved for the caller
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrGatewayUnavailable wraps network and service failures of the data gateway.
	// Reads failing with it may be retried.
	ErrGatewayUnavailable = errors.New("data gateway unavailable")

	// ErrRowNotFound is returned when a cart row does not exist for the identity
	ErrRowNotFound = errors.New("cart row not found")

	// ErrDuplicateRow is returned by InsertCartRow when the identity already has a row for the product
	ErrDuplicateRow = errors.New("cart row already exists for product")

	ErrInvalidIdentity = errors.New("identity must not be empty")
	ErrInvalidProduct  = errors.New("product id must be positive")
	ErrInvalidRow      = errors.New("cart row id must be positive")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// Unavailable marks err as a transient gateway failure of op
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrGatewayUnavailable, op, err)
}
