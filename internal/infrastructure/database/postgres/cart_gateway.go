// internal/infrastructure/database/postgres/cart_gateway.go
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/your-org/food-ordering-backend/internal/domain/cart"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
	"github.com/your-org/food-ordering-backend/internal/pkg/validate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartGateway implements cart.Gateway and cart.Upserter on top of gorm
type CartGateway struct {
	db *gorm.DB
}

var (
	_ cart.Gateway  = (*CartGateway)(nil)
	_ cart.Upserter = (*CartGateway)(nil)
)

// NewCartGateway creates a new cart gateway
func NewCartGateway(db *gorm.DB) *CartGateway {
	return &CartGateway{db: db}
}

// ListCartRows returns the rows of identity in insertion order
func (g *CartGateway) ListCartRows(ctx context.Context, identity string) ([]cart.CartRow, error) {
	var rows []cart.CartRow
	if err := g.db.WithContext(ctx).
		Where("user_id = ?", identity).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, cart.Unavailable("list cart rows", err)
	}

	for i := range rows {
		if err := validate.Record("cart row", &rows[i]); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// ListProducts fetches the products among ids in a single query
func (g *CartGateway) ListProducts(ctx context.Context, ids []uint) ([]product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []product.Product
	if err := g.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, cart.Unavailable("list products", err)
	}

	for i := range products {
		if err := validate.Record("product", &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// InsertCartRow creates a row, reporting cart.ErrDuplicateRow on a uniqueness conflict
func (g *CartGateway) InsertCartRow(ctx context.Context, identity string, productID uint, quantity int) (*cart.CartRow, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	row := cart.CartRow{Identity: identity, ProductID: productID, Quantity: quantity}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, cart.ErrDuplicateRow
		}
		return nil, cart.Unavailable("insert cart row", err)
	}
	return &row, nil
}

// UpdateCartRowQuantity overwrites a row's quantity
func (g *CartGateway) UpdateCartRowQuantity(ctx context.Context, rowID uint, quantity int) error {
	if quantity < 1 {
		return cart.ErrInvalidQuantity
	}

	result := g.db.WithContext(ctx).
		Model(&cart.CartRow{}).
		Where("id = ?", rowID).
		Update("quantity", quantity)
	if result.Error != nil {
		return cart.Unavailable("update cart row", result.Error)
	}
	if result.RowsAffected == 0 {
		return cart.ErrRowNotFound
	}
	return nil
}

// DeleteCartRow removes one row owned by identity
func (g *CartGateway) DeleteCartRow(ctx context.Context, identity string, rowID uint) error {
	result := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", rowID, identity).
		Delete(&cart.CartRow{})
	if result.Error != nil {
		return cart.Unavailable("delete cart row", result.Error)
	}
	if result.RowsAffected == 0 {
		return cart.ErrRowNotFound
	}
	return nil
}

// DeleteCartRows removes the listed rows owned by identity
func (g *CartGateway) DeleteCartRows(ctx context.Context, identity string, rowIDs ...uint) error {
	if len(rowIDs) == 0 {
		return nil
	}

	if err := g.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", identity, rowIDs).
		Delete(&cart.CartRow{}).Error; err != nil {
		return cart.Unavailable("delete cart rows", err)
	}
	return nil
}

// IncrementCartRow inserts the row or adds delta to its quantity in one statement:
// INSERT ... ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = carts.quantity + delta
func (g *CartGateway) IncrementCartRow(ctx context.Context, identity string, productID uint, delta int) (*cart.CartRow, error) {
	if delta < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	db := g.db.WithContext(ctx)
	row := cart.CartRow{Identity: identity, ProductID: productID, Quantity: delta}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("carts.quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, cart.Unavailable("upsert cart row", err)
	}

	var stored cart.CartRow
	if err := db.Where("user_id = ? AND product_id = ?", identity, productID).
		First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrRowNotFound
		}
		return nil, cart.Unavailable("read upserted cart row", err)
	}
	return &stored, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	// sqlite and wrapped driver errors lose their type
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
