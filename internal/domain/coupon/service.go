// internal/domain/coupon/service.go
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrNotRedeemable = errors.New("coupon is no longer redeemable")
)

// Service handles coupon issuing and redemption
type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{
		db:  db,
		log: log.WithField("service", "coupon"),
	}
}

// IssueWelcome gives identity the welcome coupon unless it already has one.
// It runs on tx so it commits together with the profile that triggered it.
func (s *Service) IssueWelcome(tx *gorm.DB, identity string) error {
	welcome := Coupon{
		Identity:   identity,
		Code:       WelcomeCode,
		Discount:   WelcomeDiscount,
		Status:     StatusActive,
		UsageLimit: WelcomeUsageLimit,
	}

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "code"}},
		DoNothing: true,
	}).Create(&welcome)
	if result.Error != nil {
		return fmt.Errorf("failed to issue welcome coupon: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.log.WithField("identity", identity).Info("Welcome coupon issued")
	}
	return nil
}

// List returns the coupons identity can still redeem
func (s *Service) List(ctx context.Context, identity string) ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND times_used < usage_limit", identity, StatusActive).
		Order("created_at ASC, id ASC").
		Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// Redeem consumes one use of code for identity and returns the coupon and the
// discount it grants on subtotal. The use is claimed with a conditional update
// so two concurrent orders cannot both spend a single-use coupon.
func (s *Service) Redeem(tx *gorm.DB, identity, code string, subtotal decimal.Decimal) (*Coupon, decimal.Decimal, error) {
	code = NormalizeCode(code)

	var coupon Coupon
	if err := tx.Where("user_id = ? AND code = ?", identity, code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, ErrNotFound
		}
		return nil, decimal.Zero, fmt.Errorf("failed to load coupon: %w", err)
	}
	if !coupon.Redeemable() {
		return nil, decimal.Zero, ErrNotRedeemable
	}

	result := tx.Model(&Coupon{}).
		Where("id = ? AND status = ? AND times_used < usage_limit", coupon.ID, StatusActive).
		Updates(map[string]interface{}{
			"times_used": gorm.Expr("times_used + 1"),
			"status":     gorm.Expr("CASE WHEN times_used + 1 >= usage_limit THEN ? ELSE status END", StatusRedeemed),
		})
	if result.Error != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to redeem coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, decimal.Zero, ErrNotRedeemable
	}

	coupon.TimesUsed++
	if coupon.TimesUsed >= coupon.UsageLimit {
		coupon.Status = StatusRedeemed
	}
	return &coupon, coupon.DiscountOn(subtotal), nil
}

// Release gives back one use of code, for orders cancelled after redeeming it
func (s *Service) Release(tx *gorm.DB, identity, code string) error {
	result := tx.Model(&Coupon{}).
		Where("user_id = ? AND code = ? AND times_used > 0", identity, NormalizeCode(code)).
		Updates(map[string]interface{}{
			"times_used": gorm.Expr("times_used - 1"),
			"status":     StatusActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release coupon: %w", result.Error)
	}
	return nil
}

// NormalizeCode upper-cases and trims a user supplied code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
