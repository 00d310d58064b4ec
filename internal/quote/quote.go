// Package quote renders the client-facing quote for a job as plain text.
package quote

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Simplici0/printcost/internal/money"
	"github.com/Simplici0/printcost/internal/store"
)

// Request carries the sale terms of one quoted item.
type Request struct {
	Client    string  `json:"client"`
	Product   string  `json:"product"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Shipping  float64 `json:"shipping"`
	Discount  float64 `json:"discount"`
	Notes     string  `json:"notes"`
}

// Document is a priced quote ready to render.
type Document struct {
	Number   string
	Date     time.Time
	Company  store.CompanySettings
	Request  Request
	Subtotal float64
	Total    float64
	Notes    string
}

// Build prices req. Total is subtotal plus shipping minus discount; request
// notes win over the company's default notes.
func Build(req Request, company store.CompanySettings, now time.Time) Document {
	subtotal := req.UnitPrice * float64(req.Quantity)
	notes := req.Notes
	if notes == "" {
		notes = company.Notes
	}
	return Document{
		Number:   fmt.Sprintf("ORD-%06d", now.UnixMilli()%1000000),
		Date:     now,
		Company:  company,
		Request:  req,
		Subtotal: subtotal,
		Total:    subtotal + req.Shipping - req.Discount,
		Notes:    notes,
	}
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return money.FormatCurrency("R$", v) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
	"lines": func(s string) []string { return strings.Split(strings.TrimSpace(s), "\n") },
}

var documentTemplate = template.Must(template.New("quote").Funcs(funcs).Parse(`{{with .Company}}{{if .TradeName}}{{.TradeName}}{{else}}Your Company{{end}}
{{if .LegalName}}{{.LegalName}}
{{end}}{{if .TaxID}}{{.TaxID}}
{{end}}{{if .Address}}{{.Address}}
{{end}}{{if .Phone}}{{.Phone}}
{{end}}{{if .Email}}{{.Email}}
{{end}}{{if .Website}}{{.Website}}
{{end}}{{end}}
QUOTE {{.Number}}
Date: {{date .Date}}

Client: {{.Request.Client}}

Product: {{.Request.Product}}
{{if .Request.Category}}Category: {{.Request.Category}}
{{end}}Quantity: {{.Request.Quantity}}
Unit price: {{money .Request.UnitPrice}}

Subtotal: {{money .Subtotal}}
{{if gt .Request.Shipping 0.0}}Shipping: {{money .Request.Shipping}}
{{end}}{{if gt .Request.Discount 0.0}}Discount: - {{money .Request.Discount}}
{{end}}TOTAL: {{money .Total}}

Payment
{{if .Company.PixKey}}- PIX: {{.Company.PixKey}}
{{end}}{{if .Company.BankDetails}}- Bank transfer:
{{range lines .Company.BankDetails}}    {{.}}
{{end}}{{end}}- Credit or debit card (ask for terms)
{{if or .Company.DeliveryTime .Company.QuoteValidity .Notes}}
Terms
{{if .Company.DeliveryTime}}- Delivery time: {{.Company.DeliveryTime}}
{{end}}{{if .Company.QuoteValidity}}- This quote is valid for {{.Company.QuoteValidity}}
{{end}}{{if .Notes}}- Notes: {{.Notes}}
{{end}}{{end}}`))

// Render writes d as plain text.
func Render(w io.Writer, d Document) error {
	if err := documentTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("render quote: %w", err)
	}
	return nil
}
