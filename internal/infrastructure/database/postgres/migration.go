// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/food-ordering-backend/internal/domain/cart"
	"github.com/your-org/food-ordering-backend/internal/domain/coupon"
	"github.com/your-org/food-ordering-backend/internal/domain/order"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
	"github.com/your-org/food-ordering-backend/internal/domain/profile"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&product.Product{},
		&profile.Profile{},
		&coupon.Coupon{},
		&cart.CartRow{},
		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Menu browsing
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",

		// Cart reads are always by identity in insertion order
		"CREATE INDEX IF NOT EXISTS idx_carts_user_id ON carts(user_id, id)",

		// Order history
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at)",

		// Coupons
		"CREATE INDEX IF NOT EXISTS idx_coupons_user_status ON coupons(user_id, status)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedMenu inserts a starter menu when the products table is empty
func (m *Migration) SeedMenu() (int, error) {
	log.Println("🌱 Seeding menu...")

	var productCount int64
	if err := m.db.Model(&product.Product{}).Count(&productCount).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		log.Println("⏭️ Menu already seeded")
		return 0, nil
	}

	menu := starterMenu()
	if err := m.db.Create(&menu).Error; err != nil {
		return 0, fmt.Errorf("failed to seed menu: %w", err)
	}

	log.Printf("✅ Seeded %d menu items", len(menu))
	return len(menu), nil
}

func starterMenu() []product.Product {
	prep := func(minutes int) *int { return &minutes }
	tag := func(t string) *string { return &t }
	price := decimal.RequireFromString

	return []product.Product{
		{Name: "Chicken Curry & Rice", Description: "Slow-cooked curry with basmati rice", Price: price("89.90"), PrepTime: prep(25), Tag: tag("Popular"), Category: "Meals", Type: product.TypePrepared},
		{Name: "Beef Lasagne", Description: "Layered pasta baked with beef ragu", Price: price("95.00"), PrepTime: prep(30), Category: "Meals", Type: product.TypePrepared},
		{Name: "Classic Burger", Description: "Beef patty, cheddar, pickles", Price: price("35.00"), PrepTime: prep(15), Tag: tag("Popular"), Category: "Burgers", Type: product.TypePrepared},
		{Name: "Loaded Fries", Description: "Fries with cheese sauce and bacon bits", Price: price("20.50"), PrepTime: prep(10), Category: "Extras", Type: product.TypePrepared},
		{Name: "Chocolate Lava Cake", Description: "Warm cake with a molten centre", Price: price("45.00"), PrepTime: prep(15), Tag: tag("New"), Category: "Dessert", Type: product.TypePrepared},
		{Name: "Cheesecake Slice", Description: "Baked vanilla cheesecake", Price: price("38.50"), Category: "Dessert", Type: product.TypePrepared},
		{Name: "Iced Tea", Description: "Peach iced tea", Price: price("18.00"), Category: "Drinks", Type: product.TypePrepared},
		{Name: "Frozen Cottage Pie", Description: "Family-size, oven ready", Price: price("120.00"), Category: "Meals", Type: product.TypeFrozen},
		{Name: "Frozen Chicken Pies (4)", Description: "Heat and eat", Price: price("79.99"), Category: "Meals", Type: product.TypeFrozen},
		{Name: "Frozen Brownie Tray", Description: "Twelve fudge brownies", Price: price("60.00"), Category: "Dessert", Type: product.TypeFrozen},
	}
}

// GetTableInfo logs the row count of every migrated table
func (m *Migration) GetTableInfo() {
	log.Println("📊 Database table information:")

	for _, model := range Models() {
		var count int64
		stmt := &gorm.Statement{DB: m.db}
		if err := stmt.Parse(model); err != nil {
			log.Printf("⚠️ Failed to parse model %T: %v", model, err)
			continue
		}
		if err := m.db.Model(model).Count(&count).Error; err != nil {
			log.Printf("⚠️ Failed to count %s: %v", stmt.Schema.Table, err)
			continue
		}
		log.Printf("   %s: %d rows", stmt.Schema.Table, count)
	}
}
