// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/domain/order"
)

// Service renders order receipts. PDF output needs the wkhtmltopdf binary on PATH.
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl:   template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedAt      string
	Order         *order.Order
	Currency      string
	Company       config.ReceiptConfig
}

// GenerateReceipt renders the receipt of o as a PDF document
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(8)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the receipt of o as an HTML page
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	currency := o.Currency
	if currency == "" {
		currency = s.config.App.Currency
	}

	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCT-%s", o.OrderNumber),
		IssuedAt:      o.CreatedAt.UTC().Format(time.RFC1123),
		Order:         o,
		Currency:      currency,
		Company:       s.config.Receipt,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 16px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 12px; margin-bottom: 16px; }
        .title { font-size: 22px; font-weight: bold; color: #ea580c; }
        .status { display: inline-block; padding: 2px 6px; border-radius: 4px; background: #f3f4f6; font-size: 11px; text-transform: uppercase; }
        table { width: 100%; border-collapse: collapse; }
        .items th, .items td { border-bottom: 1px solid #eee; padding: 6px 4px; text-align: left; }
        .items .num { text-align: right; }
        .totals { margin-top: 12px; width: 60%; margin-left: 40%; }
        .totals td { padding: 4px; text-align: right; }
        .grand { font-weight: bold; font-size: 16px; border-top: 2px solid #333; }
        .footer { margin-top: 24px; text-align: center; color: #666; font-size: 11px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.Company.CompanyName}}</div>
        {{if .Company.CompanyAddress}}<div>{{.Company.CompanyAddress}}</div>{{end}}
        {{if .Company.CompanyPhone}}<div>{{.Company.CompanyPhone}}</div>{{end}}
        {{if .Company.CompanyEmail}}<div>{{.Company.CompanyEmail}}</div>{{end}}
    </div>

    <table>
        <tr><td><strong>Receipt</strong></td><td>{{.ReceiptNumber}}</td></tr>
        <tr><td><strong>Order</strong></td><td>{{.Order.OrderNumber}} <span class="status">{{.Order.Status}}</span></td></tr>
        <tr><td><strong>Placed</strong></td><td>{{.IssuedAt}}</td></tr>
    </table>

    <table class="items" style="margin-top: 16px;">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
        {{range .Order.Items}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{.UnitPrice.StringFixed 2}}</td>
                <td class="num">{{.LineTotal.StringFixed 2}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td>{{.Currency}} {{.Order.SubtotalAmount.StringFixed 2}}</td></tr>
        {{if .Order.CouponCode}}<tr><td>Discount ({{.Order.CouponCode}})</td><td>-{{.Currency}} {{.Order.DiscountAmount.StringFixed 2}}</td></tr>{{end}}
        <tr class="grand"><td>Total</td><td>{{.Currency}} {{.Order.TotalAmount.StringFixed 2}}</td></tr>
    </table>

    {{if .Order.Notes}}<p><strong>Notes:</strong> {{.Order.Notes}}</p>{{end}}

    <div class="footer">Thank you for your order!</div>
</body>
</html>
`
