package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/domain/order"
)

func TestRenderHTML(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Currency: "ZAR"},
		Receipt: config.ReceiptConfig{CompanyName: "Corner Kitchen", CompanyPhone: "+27 21 555 0100"},
	}
	svc := NewService(cfg)

	o := &order.Order{
		OrderNumber:    "ORD-20261015-8F3A21BC",
		Status:         order.OrderStatusPending,
		SubtotalAmount: decimal.RequireFromString("90.50"),
		DiscountAmount: decimal.RequireFromString("22.63"),
		TotalAmount:    decimal.RequireFromString("67.87"),
		CouponCode:     "NEW25",
		Notes:          "No onions <please>",
		CreatedAt:      time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC),
		Items: []order.OrderItem{
			{Name: "Classic Burger", Quantity: 2, UnitPrice: decimal.RequireFromString("35"), LineTotal: decimal.RequireFromString("70")},
			{Name: "Loaded Fries", Quantity: 1, UnitPrice: decimal.RequireFromString("20.5"), LineTotal: decimal.RequireFromString("20.5")},
		},
	}

	html, err := svc.RenderHTML(o)
	require.NoError(t, err)
	body := string(html)

	assert.Contains(t, body, "Corner Kitchen")
	assert.Contains(t, body, "RCT-ORD-20261015-8F3A21BC")
	assert.Contains(t, body, "<td class=\"num\">35.00</td>")
	assert.Contains(t, body, "<td class=\"num\">20.50</td>")
	assert.Contains(t, body, "Discount (NEW25)")
	assert.Contains(t, body, "ZAR 67.87")
	assert.Contains(t, body, "No onions &lt;please&gt;")
	assert.NotContains(t, body, "<please>")
}

func TestRenderHTMLWithoutCoupon(t *testing.T) {
	svc := NewService(&config.Config{App: config.AppConfig{Currency: "ZAR"}})

	html, err := svc.RenderHTML(&order.Order{
		OrderNumber:    "ORD-20261015-00000001",
		SubtotalAmount: decimal.RequireFromString("18"),
		TotalAmount:    decimal.RequireFromString("18"),
	})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "Discount")
	assert.Contains(t, string(html), "ZAR 18.00")
}
