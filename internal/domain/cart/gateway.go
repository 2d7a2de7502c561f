// internal/domain/cart/gateway.go
package cart

import (
	"context"

	"github.com/your-org/food-ordering-backend/internal/domain/product"
)

// Gateway is the row-level store the cart core reads and writes. Failures that
// may succeed on retry are wrapped with ErrGatewayUnavailable; records that do
// not match the expected shape surface as *validate.RecordError.
type Gateway interface {
	// ListCartRows returns every row of identity, oldest first
	ListCartRows(ctx context.Context, identity string) ([]CartRow, error)
	// ListProducts returns the products among ids that exist. Missing ids are simply absent.
	ListProducts(ctx context.Context, ids []uint) ([]product.Product, error)
	// InsertCartRow creates a row, failing with ErrDuplicateRow when one exists for the product
	InsertCartRow(ctx context.Context, identity string, productID uint, quantity int) (*CartRow, error)
	// UpdateCartRowQuantity overwrites the quantity of a row
	UpdateCartRowQuantity(ctx context.Context, rowID uint, quantity int) error
	// DeleteCartRow removes one row owned by identity, failing with ErrRowNotFound otherwise
	DeleteCartRow(ctx context.Context, identity string, rowID uint) error
	// DeleteCartRows removes the listed rows owned by identity and ignores the rest
	DeleteCartRows(ctx context.Context, identity string, rowIDs ...uint) error
}

// Upserter is implemented by gateways that can add to a row's quantity, creating
// the row when absent, in one atomic step.
type Upserter interface {
	IncrementCartRow(ctx context.Context, identity string, productID uint, delta int) (*CartRow, error)
}
