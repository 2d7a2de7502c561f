// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/domain/cart"
	"github.com/your-org/food-ordering-backend/internal/domain/coupon"
	"github.com/your-org/food-ordering-backend/internal/domain/order"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
	"github.com/your-org/food-ordering-backend/internal/domain/profile"
	"github.com/your-org/food-ordering-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/food-ordering-backend/internal/interfaces/http/handlers"
	"github.com/your-org/food-ordering-backend/internal/interfaces/http/middleware"
	"github.com/your-org/food-ordering-backend/internal/pkg/auth"
	"github.com/your-org/food-ordering-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires services and handlers onto the API group. redisClient may
// be nil, in which case the menu is served without a cache.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logrus.FieldLogger) {
	var menuCache product.Cache
	if redisClient != nil {
		menuCache = product.NewRedisCache(redisClient)
	}

	productService := product.NewService(db, menuCache, cfg, log)
	cartService := cart.NewService(postgres.NewCartGateway(db), cfg, log)
	couponService := coupon.NewService(db, log)
	profileService := profile.NewService(db, couponService, log)
	orderService := order.NewService(db, cfg, cartService, couponService, log)

	requireAuth := middleware.Auth(auth.NewJWTManager(cfg))

	setupMenuRoutes(rg, handlers.NewProductHandler(productService, log))
	setupCartRoutes(rg, handlers.NewCartHandler(cartService, log), requireAuth)
	setupOrderRoutes(rg,
		handlers.NewOrderHandler(orderService, log),
		handlers.NewReceiptHandler(orderService, pdf.NewService(cfg), log),
		requireAuth,
	)
	setupProfileRoutes(rg, handlers.NewProfileHandler(profileService, couponService, log), requireAuth)
}

// setupMenuRoutes sets up public menu routes
func setupMenuRoutes(rg *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	rg.GET("/menu/categories", productHandler.GetCategories)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// setupCartRoutes sets up cart routes
func setupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler, requireAuth gin.HandlerFunc) {
	cartGroup := rg.Group("/cart")
	cartGroup.Use(requireAuth)
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.GET("/summary", cartHandler.GetSummary)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}
}

// setupOrderRoutes sets up order routes
func setupOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, receiptHandler *handlers.ReceiptHandler, requireAuth gin.HandlerFunc) {
	orders := rg.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/receipt", receiptHandler.GetReceipt)
	}
}

// setupProfileRoutes sets up profile and coupon routes
func setupProfileRoutes(rg *gin.RouterGroup, profileHandler *handlers.ProfileHandler, requireAuth gin.HandlerFunc) {
	account := rg.Group("")
	account.Use(requireAuth)
	{
		account.GET("/profile", profileHandler.GetProfile)
		account.PUT("/profile", profileHandler.UpdateProfile)
		account.GET("/coupons", profileHandler.GetCoupons)
	}
}
