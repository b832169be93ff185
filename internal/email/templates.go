// Package email provides email templates.
package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
)

// OrderInfo contains everything the order email templates need. Item values
// are snapshots taken at order creation.
type OrderInfo struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	Delivery      string
	Pay           string
	Items         []OrderLine
	Total         string
	ShopName      string
	OperatorEmail string
	OrderDate     string
}

// OrderLine is one purchased line in an order email.
type OrderLine struct {
	Name     string
	Size     string
	Quantity int
	Price    string
}

// Renderer provides methods to render email templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer creates a new email template renderer with built-in templates.
func NewRenderer() (*Renderer, error) {
	tmpl := template.New("email")

	for key, body := range map[string]string{
		"order_operator_html":     orderOperatorHTML,
		"order_operator_text":     orderOperatorText,
		"order_confirmation_html": orderConfirmationHTML,
		"order_confirmation_text": orderConfirmationText,
	} {
		if _, err := tmpl.New(key).Parse(body); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", key, err)
		}
	}

	return &Renderer{templates: tmpl}, nil
}

// Render renders an email template with the given data.
func (r *Renderer) Render(ctx context.Context, templateName string, data *OrderInfo) (*Email, error) {
	_ = ctx

	var htmlBuf, textBuf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&htmlBuf, templateName+"_html", data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}
	if err := r.templates.ExecuteTemplate(&textBuf, templateName+"_text", data); err != nil {
		return nil, fmt.Errorf("failed to render text template: %w", err)
	}

	var to, subject string
	switch templateName {
	case "order_operator":
		to = data.OperatorEmail
		subject = fmt.Sprintf("New Order %s - %s", data.OrderNumber, data.ShopName)
	case "order_confirmation":
		to = data.CustomerEmail
		subject = fmt.Sprintf("Order Received - %s - %s", data.OrderNumber, data.ShopName)
	default:
		return nil, fmt.Errorf("unknown email template: %s", templateName)
	}

	return &Email{
		To:      to,
		Subject: subject,
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}

// SendOrderOperatorNotice sends the new-order summary to the shop operator.
func SendOrderOperatorNotice(ctx context.Context, p Provider, orderInfo *OrderInfo) error {
	return renderAndSend(ctx, p, "order_operator", orderInfo)
}

// SendOrderConfirmation sends the receipt confirmation to the customer.
func SendOrderConfirmation(ctx context.Context, p Provider, orderInfo *OrderInfo) error {
	return renderAndSend(ctx, p, "order_confirmation", orderInfo)
}

func renderAndSend(ctx context.Context, p Provider, templateName string, orderInfo *OrderInfo) error {
	if p == nil {
		return nil
	}

	renderer, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	email, err := renderer.Render(ctx, templateName, orderInfo)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.SendEmail(ctx, email)
}

const orderOperatorText = `A new order has been placed.

Order Number: {{.OrderNumber}}
Order Date: {{.OrderDate}}

Customer:
  Name: {{.CustomerName}}
  Email: {{.CustomerEmail}}
  Phone: {{.CustomerPhone}}
  Address: {{.Address}}
  Delivery: {{.Delivery}}
  Payment: {{.Pay}}

Items:
{{range .Items}}- {{.Name}}, {{.Size}} x{{.Quantity}} - {{.Price}}
{{end}}
Total: {{.Total}}
`

const orderOperatorHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Order</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #1d4ed8; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
    .block { background: white; padding: 15px; border-radius: 6px; margin: 15px 0; }
    .items-table { width: 100%; border-collapse: collapse; margin: 15px 0; }
    .items-table th { text-align: left; padding: 10px; background: #f3f4f6; border-bottom: 2px solid #e5e7eb; }
    .items-table td { padding: 10px; border-bottom: 1px solid #e5e7eb; }
    .total { font-size: 18px; font-weight: bold; text-align: right; padding: 15px 0; }
  </style>
</head>
<body>
  <div class="header">
    <h1>New Order {{.OrderNumber}}</h1>
    <p>{{.OrderDate}}</p>
  </div>
  <div class="content">
    <div class="block">
      <strong>Name:</strong> {{.CustomerName}}<br>
      <strong>Email:</strong> {{.CustomerEmail}}<br>
      <strong>Phone:</strong> <a href="tel:{{.CustomerPhone}}">{{.CustomerPhone}}</a><br>
      <strong>Address:</strong> {{.Address}}<br>
      <strong>Delivery:</strong> {{.Delivery}}<br>
      <strong>Payment:</strong> {{.Pay}}
    </div>
    <table class="items-table">
      <thead>
        <tr><th>Item</th><th>Size</th><th>Qty</th><th>Price</th></tr>
      </thead>
      <tbody>
        {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Size}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td></tr>
        {{end}}
      </tbody>
    </table>
    <div class="total">Total: {{.Total}}</div>
  </div>
</body>
</html>`

const orderConfirmationText = `Thank you for your order!

Order Number: {{.OrderNumber}}
Order Date: {{.OrderDate}}

Items:
{{range .Items}}- {{.Name}}, {{.Size}} x{{.Quantity}} - {{.Price}}
{{end}}
Total: {{.Total}}

Delivery: {{.Delivery}}
Payment: {{.Pay}}

We will contact you shortly to confirm the details.

Thank you for shopping with {{.ShopName}}!
`

const orderConfirmationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Order Received</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #15803d; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
    .block { background: white; padding: 15px; border-radius: 6px; margin: 15px 0; }
    .items-table { width: 100%; border-collapse: collapse; margin: 15px 0; }
    .items-table th { text-align: left; padding: 10px; background: #f3f4f6; border-bottom: 2px solid #e5e7eb; }
    .items-table td { padding: 10px; border-bottom: 1px solid #e5e7eb; }
    .total { font-size: 18px; font-weight: bold; text-align: right; padding: 15px 0; }
    .footer { text-align: center; padding: 20px; color: #6b7280; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Order Received</h1>
    <p>Thank you for your order, {{.CustomerName}}</p>
  </div>
  <div class="content">
    <div class="block">
      <strong>Order Number:</strong> {{.OrderNumber}}<br>
      <strong>Order Date:</strong> {{.OrderDate}}<br>
      <strong>Delivery:</strong> {{.Delivery}}<br>
      <strong>Payment:</strong> {{.Pay}}
    </div>
    <table class="items-table">
      <thead>
        <tr><th>Item</th><th>Size</th><th>Qty</th><th>Price</th></tr>
      </thead>
      <tbody>
        {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Size}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td></tr>
        {{end}}
      </tbody>
    </table>
    <div class="total">Total: {{.Total}}</div>
    <div class="footer">
      <p>We will contact you shortly to confirm the details.</p>
      <p>{{.ShopName}}</p>
    </div>
  </div>
</body>
</html>`
