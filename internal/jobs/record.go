// Package jobs validates print-job drafts, prices them and records them in
// the history together with the stock they consume.
package jobs

import (
	"time"

	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/margin"
	"github.com/Simplici0/printcost/internal/pricing"
)

// Draft is a job as submitted for recording.
type Draft struct {
	Client     string      `json:"client" yaml:"client"`
	Product    string      `json:"product" yaml:"product"`
	CategoryID int64       `json:"category_id" yaml:"category_id"`
	Job        pricing.Job `json:"job" yaml:"job"`
}

// Record is one row of the print history.
type Record struct {
	ID           int64     `json:"id" db:"id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Client       string    `json:"client" db:"client"`
	Product      string    `json:"product" db:"product"`
	CategoryID   *int64    `json:"category_id" db:"category_id"`
	CategoryName string    `json:"category_name" db:"category_name"`
	PrinterName  string    `json:"printer_name" db:"printer_name"`
	TotalWeightG float64   `json:"total_weight_g" db:"total_weight_g"`
	TotalHours   float64   `json:"total_hours" db:"total_hours"`
	Quantity     int       `json:"quantity" db:"quantity"`
	TotalCost    float64   `json:"total_cost" db:"total_cost"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	UnitProfit   float64   `json:"unit_profit" db:"unit_profit"`
	TotalProfit  float64   `json:"total_profit" db:"total_profit"`
	MarginPct    float64   `json:"margin_pct" db:"margin_pct"`
	Tier         string    `json:"tier" db:"tier"`
}

// Sales is the revenue of the record.
func (r Record) Sales() float64 {
	return r.UnitPrice * float64(r.Quantity)
}

// NewRecord builds the history row for a priced draft.
func NewRecord(d Draft, snap catalog.Snapshot, b pricing.Breakdown, tier margin.Tier, at time.Time) Record {
	rec := Record{
		CreatedAt:   at,
		Client:      d.Client,
		Product:     d.Product,
		TotalHours:  d.Job.TotalHours(),
		Quantity:    d.Job.Quantity,
		TotalCost:   b.TotalCost,
		UnitPrice:   d.Job.UnitPrice,
		UnitProfit:  b.UnitProfit,
		TotalProfit: b.TotalProfit,
		MarginPct:   b.MarginPercent,
		Tier:        tier.Key,
	}
	if d.CategoryID > 0 {
		id := d.CategoryID
		rec.CategoryID = &id
	}
	if p, ok := snap.Printer(d.Job.PrinterID); ok {
		rec.PrinterName = p.Name()
	}
	for _, line := range d.Job.Filaments {
		rec.TotalWeightG += line.Grams
	}
	return rec
}

// StockUsage is the amount to deduct per catalog id.
type StockUsage struct {
	FilamentGrams map[int64]float64
	Accessories   map[int64]float64
	Packaging     map[int64]float64
}

// UsageOf sums the positive amounts of job per id, so duplicate lines for
// the same item are all deducted.
func UsageOf(job pricing.Job) StockUsage {
	u := StockUsage{
		FilamentGrams: map[int64]float64{},
		Accessories:   map[int64]float64{},
		Packaging:     map[int64]float64{},
	}
	for _, line := range job.Filaments {
		if line.Grams > 0 {
			u.FilamentGrams[line.FilamentID] += line.Grams
		}
	}
	for _, line := range job.Accessories {
		if line.Quantity > 0 {
			u.Accessories[line.ID] += line.Quantity
		}
	}
	for _, line := range job.Packaging {
		if line.Quantity > 0 {
			u.Packaging[line.ID] += line.Quantity
		}
	}
	return u
}
