// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents a coupon's redemption state
type Status string

const (
	StatusActive   Status = "active"
	StatusRedeemed Status = "redeemed"
)

// Welcome coupon issued once to every new profile
const (
	WelcomeCode       = "NEW25"
	WelcomeDiscount   = 25
	WelcomeUsageLimit = 1
)

// Coupon is a percentage discount owned by one identity
type Coupon struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Identity   string    `gorm:"column:user_id;not null;size:64;uniqueIndex:idx_coupons_user_code,priority:1" json:"-"`
	Code       string    `gorm:"not null;size:32;uniqueIndex:idx_coupons_user_code,priority:2" json:"code"`
	Discount   int       `gorm:"not null" json:"discount"` // percent
	Status     Status    `gorm:"not null;size:20;default:'active'" json:"status"`
	UsageLimit int       `gorm:"not null;default:1" json:"usage_limit"`
	TimesUsed  int       `gorm:"not null;default:0" json:"times_used"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}

// Redeemable reports whether the coupon can still be applied
func (c *Coupon) Redeemable() bool {
	return c.Status == StatusActive && c.TimesUsed < c.UsageLimit
}

// DiscountOn returns the amount taken off subtotal, rounded to the minor unit
func (c *Coupon) DiscountOn(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(int64(c.Discount))).Div(decimal.NewFromInt(100)).Round(2)
}
