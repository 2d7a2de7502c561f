// internal/domain/cart/mutator.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Mutator applies cart writes against the gateway. It never re-aggregates;
// callers refresh or patch their CartView after a successful write.
type Mutator struct {
	gateway Gateway
}

// NewMutator creates a new cart mutator
func NewMutator(gateway Gateway) *Mutator {
	return &Mutator{gateway: gateway}
}

// AddOrIncrement adds one unit of productID to the cart of identity.
// Gateways implementing Upserter do it in a single atomic write; otherwise the
// existing row is looked up and incremented, or a new row is inserted.
func (m *Mutator) AddOrIncrement(ctx context.Context, identity string, productID uint) (*CartRow, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, ErrInvalidIdentity
	}
	if productID == 0 {
		return nil, ErrInvalidProduct
	}

	if upserter, ok := m.gateway.(Upserter); ok {
		row, err := upserter.IncrementCartRow(ctx, identity, productID, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to increment cart row: %w", err)
		}
		return row, nil
	}

	row, err := m.findRow(ctx, identity, productID)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return m.increment(ctx, row)
	}

	row, err = m.gateway.InsertCartRow(ctx, identity, productID, 1)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, ErrDuplicateRow) {
		return nil, fmt.Errorf("failed to insert cart row: %w", err)
	}

	// A concurrent add created the row first; increment that one instead
	row, err = m.findRow(ctx, identity, productID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("failed to insert cart row: %w", ErrDuplicateRow)
	}
	return m.increment(ctx, row)
}

// Remove deletes one row of identity's cart
func (m *Mutator) Remove(ctx context.Context, identity string, rowID uint) error {
	if strings.TrimSpace(identity) == "" {
		return ErrInvalidIdentity
	}
	if rowID == 0 {
		return ErrInvalidRow
	}

	if err := m.gateway.DeleteCartRow(ctx, identity, rowID); err != nil {
		return fmt.Errorf("failed to delete cart row: %w", err)
	}
	return nil
}

// Clear deletes every row currently in identity's cart
func (m *Mutator) Clear(ctx context.Context, identity string) error {
	if strings.TrimSpace(identity) == "" {
		return ErrInvalidIdentity
	}

	rows, err := m.gateway.ListCartRows(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to list cart rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	if err := m.gateway.DeleteCartRows(ctx, identity, ids...); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (m *Mutator) findRow(ctx context.Context, identity string, productID uint) (*CartRow, error) {
	rows, err := m.gateway.ListCartRows(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart rows: %w", err)
	}
	for i := range rows {
		if rows[i].ProductID == productID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func (m *Mutator) increment(ctx context.Context, row *CartRow) (*CartRow, error) {
	quantity := row.Quantity + 1
	if err := m.gateway.UpdateCartRowQuantity(ctx, row.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart row quantity: %w", err)
	}
	updated := *row
	updated.Quantity = quantity
	return &updated, nil
}
