package quote

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/printcost/internal/store"
)

func TestBuild_Total(t *testing.T) {
	now := time.Date(2025, 7, 9, 15, 0, 0, 0, time.UTC)
	d := Build(Request{Quantity: 3, UnitPrice: 25, Shipping: 12.5, Discount: 5}, store.DefaultCompanySettings(), now)

	if math.Abs(d.Subtotal-75) > 1e-9 || math.Abs(d.Total-82.5) > 1e-9 {
		t.Fatalf("subtotal=%v total=%v", d.Subtotal, d.Total)
	}
	if !strings.HasPrefix(d.Number, "ORD-") || len(d.Number) != 10 {
		t.Fatalf("Number = %q", d.Number)
	}
}

func TestBuild_NotesFallBackToCompany(t *testing.T) {
	company := store.CompanySettings{Notes: "Colors may vary."}
	if d := Build(Request{}, company, time.Now()); d.Notes != "Colors may vary." {
		t.Fatalf("Notes = %q", d.Notes)
	}
	if d := Build(Request{Notes: "Rush order"}, company, time.Now()); d.Notes != "Rush order" {
		t.Fatalf("Notes = %q", d.Notes)
	}
}

func TestRender(t *testing.T) {
	company := store.DefaultCompanySettings()
	company.TradeName = "Ana Prints"
	company.PixKey = "ana@pix"
	company.BankDetails = "Bank 001\nAgency 1234"

	d := Build(Request{
		Client:    "Carlos",
		Product:   "Vase",
		Category:  "Decor",
		Quantity:  2,
		UnitPrice: 40,
		Shipping:  10,
	}, company, time.Date(2025, 7, 9, 15, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Ana Prints",
		"Date: 09/07/2025",
		"Client: Carlos",
		"Category: Decor",
		"Subtotal: R$ 80.00",
		"Shipping: R$ 10.00",
		"TOTAL: R$ 90.00",
		"- PIX: ana@pix",
		"    Agency 1234",
		"- Delivery time: 7 dias úteis",
		"- This quote is valid for 30 dias",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Discount") {
		t.Fatalf("zero discount should be omitted:\n%s", out)
	}
}
