// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/domain/cart"
	"github.com/your-org/food-ordering-backend/internal/domain/coupon"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
	"github.com/your-org/food-ordering-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUnavailableItems = errors.New("cart contains items that are no longer on the menu")
	ErrCartChanged      = errors.New("cart changed while the order was being placed")
	ErrNotCancellable   = errors.New("order can no longer be cancelled")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service handles order placement and history
type Service struct {
	db      *gorm.DB
	config  *config.Config
	carts   *cart.Service
	coupons *coupon.Service
	log     logrus.FieldLogger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, carts *cart.Service, coupons *coupon.Service, log logrus.FieldLogger) *Service {
	return &Service{
		db:      db,
		config:  cfg,
		carts:   carts,
		coupons: coupons,
		log:     log.WithField("service", "order"),
	}
}

// PlaceOrderRequest represents order placement data
type PlaceOrderRequest struct {
	CouponCode string `json:"coupon_code" binding:"omitempty,max=32"`
	Notes      string `json:"notes" binding:"omitempty,max=500"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int         `form:"page,default=1"`
	Limit  int         `form:"limit,default=20"`
	Status OrderStatus `form:"status"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order            `json:"orders"`
	Pagination product.Pagination `json:"pagination"`
}

// PlaceOrder turns the current cart of identity into an order. The order, its
// items, the coupon redemption and the removal of the ordered cart rows commit
// together or not at all.
func (s *Service) PlaceOrder(ctx context.Context, identity string, req *PlaceOrderRequest) (*Order, error) {
	view, err := s.carts.GetCart(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if len(view.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if view.UnresolvedCount > 0 {
		return nil, ErrUnavailableItems
	}

	subtotal := view.GrandTotal
	order := Order{
		OrderNumber:    NewOrderNumber(time.Now()),
		Identity:       identity,
		Status:         OrderStatusPending,
		SubtotalAmount: subtotal,
		DiscountAmount: decimal.Zero,
		TotalAmount:    subtotal,
		Currency:       s.config.App.Currency,
		Notes:          strings.TrimSpace(req.Notes),
	}
	for _, line := range view.Items {
		order.Items = append(order.Items, OrderItem{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Image:     line.Product.Image,
			UnitPrice: line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	order.AddStatusHistory(OrderStatusPending, "Order placed", identity)

	// Start transaction
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin order transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if code := coupon.NormalizeCode(req.CouponCode); code != "" {
		redeemed, discount, err := s.coupons.Redeem(tx, identity, code, subtotal)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to apply coupon: %w", err)
		}
		order.CouponCode = redeemed.Code
		order.DiscountAmount = discount
		order.TotalAmount = subtotal.Sub(discount)
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Remove exactly the rows that were priced; a row changed since then aborts the order
	for _, line := range view.Items {
		result := tx.Where("id = ? AND user_id = ? AND quantity = ?", line.CartRowID, identity, line.Quantity).
			Delete(&cart.CartRow{})
		if result.Error != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to clear ordered cart rows: %w", result.Error)
		}
		if result.RowsAffected != 1 {
			tx.Rollback()
			return nil, ErrCartChanged
		}
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	metrics.OrdersPlacedTotal.Inc()
	s.log.WithFields(logrus.Fields{
		"identity":     identity,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount.StringFixed(2),
		"coupon":       order.CouponCode,
	}).Info("Order placed")

	return s.GetOrder(ctx, identity, order.ID)
}

// ListOrders returns the orders of identity, newest first
func (s *Service) ListOrders(ctx context.Context, identity string, req *OrderListRequest) (*OrderResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := s.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", identity)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &OrderResponse{
		Orders:     orders,
		Pagination: product.NewPagination(page, limit, total),
	}, nil
}

// GetOrder returns one order of identity with its items and history
func (s *Service) GetOrder(ctx context.Context, identity string, id uint) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("id = ? AND user_id = ?", id, identity).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// CancelOrder cancels a pending order and gives back its coupon
func (s *Service) CancelOrder(ctx context.Context, identity string, id uint, reason string) (*Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Where("id = ? AND user_id = ?", id, identity).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		if !order.CanBeCancelled() {
			return ErrNotCancellable
		}

		now := time.Now().UTC()
		result := tx.Model(&Order{}).
			Where("id = ? AND status = ?", order.ID, OrderStatusPending).
			Updates(map[string]interface{}{
				"status":       OrderStatusCancelled,
				"cancelled_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotCancellable
		}

		comment := "Order cancelled"
		if reason = strings.TrimSpace(reason); reason != "" {
			comment = fmt.Sprintf("Order cancelled: %s", reason)
		}
		if err := tx.Create(&OrderStatusHistory{
			OrderID:   order.ID,
			Status:    OrderStatusCancelled,
			Comment:   comment,
			CreatedBy: identity,
			CreatedAt: now,
		}).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		if order.CouponCode != "" {
			return s.coupons.Release(tx, identity, order.CouponCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"identity": identity,
		"order_id": id,
	}).Info("Order cancelled")

	return s.GetOrder(ctx, identity, id)
}
