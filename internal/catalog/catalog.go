package catalog

// Printer is a machine in the user's catalog. PowerWatts drives energy cost,
// LifetimeHours and PurchasePrice drive wear cost, FailureRatePct drives the
// yield correction.
type Printer struct {
	ID             int64   `json:"id" db:"id" yaml:"id"`
	Brand          string  `json:"brand" db:"brand" yaml:"brand"`
	Model          string  `json:"model" db:"model" yaml:"model"`
	PowerWatts     float64 `json:"power_watts" db:"power_watts" yaml:"power_watts"`
	LifetimeHours  float64 `json:"lifetime_hours" db:"lifetime_hours" yaml:"lifetime_hours"`
	PurchasePrice  float64 `json:"purchase_price" db:"purchase_price" yaml:"purchase_price"`
	FailureRatePct float64 `json:"failure_rate_pct" db:"failure_rate_pct" yaml:"failure_rate_pct"`
}

// Name returns "brand model" trimmed of empty parts.
func (p Printer) Name() string {
	switch {
	case p.Brand == "":
		return p.Model
	case p.Model == "":
		return p.Brand
	default:
		return p.Brand + " " + p.Model
	}
}

// Filament is a spool type. StockG is only changed by stock deduction after a
// job is recorded.
type Filament struct {
	ID           int64   `json:"id" db:"id" yaml:"id"`
	Brand        string  `json:"brand" db:"brand" yaml:"brand"`
	Material     string  `json:"material" db:"material" yaml:"material"`
	Color        string  `json:"color" db:"color" yaml:"color"`
	SpoolCost    float64 `json:"spool_cost" db:"spool_cost" yaml:"spool_cost"`
	SpoolWeightG float64 `json:"spool_weight_g" db:"spool_weight_g" yaml:"spool_weight_g"`
	StockG       float64 `json:"stock_g" db:"stock_g" yaml:"stock_g"`
}

// CostPerGram returns spool cost divided by spool weight, or 0 for a spool
// without weight.
func (f Filament) CostPerGram() float64 {
	if f.SpoolWeightG <= 0 {
		return 0
	}
	return f.SpoolCost / f.SpoolWeightG
}

// Supply is an accessory or a packaging item. Both kinds share this shape.
type Supply struct {
	ID            int64   `json:"id" db:"id" yaml:"id"`
	Name          string  `json:"name" db:"name" yaml:"name"`
	TotalQuantity float64 `json:"total_quantity" db:"total_quantity" yaml:"total_quantity"`
	TotalPrice    float64 `json:"total_price" db:"total_price" yaml:"total_price"`
	UnitPrice     float64 `json:"unit_price" db:"unit_price" yaml:"unit_price"`
	Stock         float64 `json:"stock" db:"stock" yaml:"stock"`
}

// UnitPrice derives the per-unit price of a purchased lot.
func UnitPrice(totalPrice, totalQuantity float64) float64 {
	if totalQuantity <= 0 {
		return 0
	}
	return totalPrice / totalQuantity
}

// Category groups history records for reporting.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// StockLevel grades remaining stock against the lot size.
type StockLevel string

const (
	StockCritical StockLevel = "critical"
	StockLow      StockLevel = "low"
	StockGood     StockLevel = "good"
)

// GradeStock returns critical at or below 10% of total, low at or below
// 30%, good otherwise. A zero total counts as 0%.
func GradeStock(current, total float64) StockLevel {
	pct := 0.0
	if total > 0 {
		pct = current / total * 100
	}
	switch {
	case pct <= 10:
		return StockCritical
	case pct <= 30:
		return StockLow
	default:
		return StockGood
	}
}
