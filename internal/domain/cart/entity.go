// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
)

// CartRow is a persisted cart line: one identity, one product, a quantity.
// UNIQUE(user_id, product_id) keeps it to one row per product.
type CartRow struct {
	ID        uint      `gorm:"primaryKey" json:"id" validate:"gt=0"`
	Identity  string    `gorm:"column:user_id;not null;size:64;uniqueIndex:idx_carts_user_product,priority:1" json:"user_id" validate:"required"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_carts_user_product,priority:2" json:"product_id" validate:"gt=0"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartRow) TableName() string {
	return "carts"
}

// LineItem is the derived view of one cart row. Product is nil when the row
// references a product that no longer exists; LineTotal is then zero.
type LineItem struct {
	CartRowID uint             `json:"cart_row_id"`
	ProductID uint             `json:"product_id"`
	Product   *product.Product `json:"product"`
	Quantity  int              `json:"quantity"`
	LineTotal decimal.Decimal  `json:"line_total"`
}

// Resolved reports whether the line's product was found
func (li LineItem) Resolved() bool {
	return li.Product != nil
}

// CartView is the cart as presented to a client. It is rebuilt on demand and
// never mutated in place.
type CartView struct {
	Identity        string          `json:"-"`
	Items           []LineItem      `json:"items"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	ItemCount       int             `json:"item_count"`
	TotalQuantity   int             `json:"total_quantity"`
	UnresolvedCount int             `json:"unresolved_count"`
}

// NewCartView builds a view over items, keeping their order, and derives every total from them
func NewCartView(identity string, items []LineItem) *CartView {
	if items == nil {
		items = []LineItem{}
	}

	view := &CartView{
		Identity:   identity,
		Items:      items,
		GrandTotal: decimal.Zero,
		ItemCount:  len(items),
	}

	for _, item := range items {
		view.GrandTotal = view.GrandTotal.Add(item.LineTotal)
		view.TotalQuantity += item.Quantity
		if !item.Resolved() {
			view.UnresolvedCount++
		}
	}

	return view
}

// Without returns a new view with the line for rowID dropped and totals recomputed
func (v *CartView) Without(rowID uint) *CartView {
	items := make([]LineItem, 0, len(v.Items))
	for _, item := range v.Items {
		if item.CartRowID != rowID {
			items = append(items, item)
		}
	}
	return NewCartView(v.Identity, items)
}

// Line returns the line for rowID, if present
func (v *CartView) Line(rowID uint) (LineItem, bool) {
	for _, item := range v.Items {
		if item.CartRowID == rowID {
			return item, true
		}
	}
	return LineItem{}, false
}

// RowIDs returns the cart row ids in display order
func (v *CartView) RowIDs() []uint {
	ids := make([]uint, len(v.Items))
	for i, item := range v.Items {
		ids[i] = item.CartRowID
	}
	return ids
}

// DuplicateRows counts lines whose product already appeared on an earlier line
func (v *CartView) DuplicateRows() int {
	seen := make(map[uint]struct{}, len(v.Items))
	duplicates := 0
	for _, item := range v.Items {
		if _, ok := seen[item.ProductID]; ok {
			duplicates++
			continue
		}
		seen[item.ProductID] = struct{}{}
	}
	return duplicates
}

// Summary is the lightweight cart badge data
type Summary struct {
	HasItems      bool `json:"has_items"`
	ItemCount     int  `json:"item_count"`
	TotalQuantity int  `json:"total_quantity"`
}
