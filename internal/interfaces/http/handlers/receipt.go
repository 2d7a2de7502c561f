// internal/interfaces/http/handlers/receipt.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/domain/order"
)

// ReceiptRenderer renders an order receipt as PDF or HTML
type ReceiptRenderer interface {
	GenerateReceipt(o *order.Order) (*bytes.Buffer, error)
	RenderHTML(o *order.Order) ([]byte, error)
}

// ReceiptHandler handles receipt endpoints
type ReceiptHandler struct {
	orderService *order.Service
	renderer     ReceiptRenderer
	log          logrus.FieldLogger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(orderService *order.Service, renderer ReceiptRenderer, log logrus.FieldLogger) *ReceiptHandler {
	return &ReceiptHandler{
		orderService: orderService,
		renderer:     renderer,
		log:          log.WithField("handler", "receipt"),
	}
}

// GetReceipt handles GET /orders/:id/receipt. The PDF is the default;
// ?format=html returns the same receipt as a page for preview.
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), identity, orderID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if c.Query("format") == "html" {
		page, err := h.renderer.RenderHTML(o)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	pdfBuffer, err := h.renderer.GenerateReceipt(o)
	if err != nil {
		h.log.WithError(err).WithField("order_number", o.OrderNumber).Error("Failed to generate receipt")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	// Set headers for PDF download
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))

	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
