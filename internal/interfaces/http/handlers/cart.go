// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	log         logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		log:         log.WithField("handler", "cart"),
	}
}

// AddToCartRequest represents add to cart data
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required,min=1"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// GetSummary handles GET /cart/summary
func (h *CartHandler) GetSummary(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	summary, err := h.cartService.Summary(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart summary retrieved successfully",
		"data":    summary,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if _, err := h.cartService.AddToCart(c.Request.Context(), identity, req.ProductID); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.respondWithCart(c, identity, "Item added to cart successfully")
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	rowID, ok := parseID(c, "id", "cart item")
	if !ok {
		return
	}

	if err := h.cartService.RemoveFromCart(c.Request.Context(), identity, rowID); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.respondWithCart(c, identity, "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), identity); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.respondWithCart(c, identity, "Cart cleared successfully")
}

// respondWithCart re-reads the cart after a committed mutation. The write has
// already succeeded, so a failed re-read still answers 200 and asks the
// client to refresh instead of reporting the mutation as failed.
func (h *CartHandler) respondWithCart(c *gin.Context, identity, message string) {
	view, err := h.cartService.GetCart(c.Request.Context(), identity)
	if err != nil {
		h.log.WithError(err).WithField("identity", identity).Warn("Cart changed but could not be re-read")
		c.JSON(http.StatusOK, gin.H{
			"message":          message,
			"refresh_required": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    view,
	})
}
