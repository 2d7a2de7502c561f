// internal/domain/cart/aggregator.go
package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
)

// Aggregator joins an identity's cart rows with their products into a CartView
type Aggregator struct {
	gateway Gateway
}

// NewAggregator creates a new cart aggregator
func NewAggregator(gateway Gateway) *Aggregator {
	return &Aggregator{gateway: gateway}
}

// Aggregate reads the cart of identity and prices every line.
// Rows whose product is gone stay in the view with a zero line total, and
// duplicate rows for one product are kept as separate lines.
func (a *Aggregator) Aggregate(ctx context.Context, identity string) (*CartView, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, ErrInvalidIdentity
	}

	rows, err := a.gateway.ListCartRows(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart rows: %w", err)
	}
	if len(rows) == 0 {
		return NewCartView(identity, nil), nil
	}

	products, err := a.gateway.ListProducts(ctx, distinctProductIDs(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to list cart products: %w", err)
	}

	byID := make(map[uint]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]LineItem, 0, len(rows))
	for _, row := range rows {
		item := LineItem{
			CartRowID: row.ID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			LineTotal: decimal.Zero,
		}
		if p, ok := byID[row.ProductID]; ok {
			item.Product = &p
			item.LineTotal = p.LineTotal(row.Quantity)
		}
		items = append(items, item)
	}

	return NewCartView(identity, items), nil
}

// distinctProductIDs keeps first-seen order so gateway calls are deterministic
func distinctProductIDs(rows []CartRow) []uint {
	seen := make(map[uint]struct{}, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ProductID]; ok {
			continue
		}
		seen[row.ProductID] = struct{}{}
		ids = append(ids, row.ProductID)
	}
	return ids
}
