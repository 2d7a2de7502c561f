// internal/domain/product/entity.go
package product

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist
var ErrNotFound = errors.New("product not found")

// Menu types
const (
	TypePrepared = "Prepared"
	TypeFrozen   = "Frozen"
)

// Product represents a menu item. Prices are stored with two decimal places.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id" validate:"gt=0"`
	Name        string          `gorm:"not null;size:255" json:"name" validate:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price" validate:"gte=0"`
	Image       string          `gorm:"size:500" json:"image"`
	PrepTime    *int            `json:"prep_time,omitempty" validate:"omitempty,gte=0"`
	Tag         *string         `gorm:"size:50" json:"tag,omitempty"`
	Category    string          `gorm:"not null;size:100;index:idx_products_type_category,priority:2" json:"category" validate:"required"`
	Type        string          `gorm:"not null;size:50;index:idx_products_type_category,priority:1" json:"type" validate:"required"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// LineTotal returns the price of quantity units, rounded to the currency minor unit
func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// CategorySummary is one entry of the menu index
type CategorySummary struct {
	Type         string `json:"type"`
	Category     string `json:"category"`
	ProductCount int64  `json:"product_count"`
}
