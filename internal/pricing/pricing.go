package pricing

import "github.com/Simplici0/printcost/internal/catalog"

// ExtraCostMode selects how Job.ExtraCost is applied.
type ExtraCostMode string

const (
	// ExtraPercent charges ExtraCost percent of the order revenue.
	ExtraPercent ExtraCostMode = "percent"
	// ExtraFixed charges ExtraCost as a flat amount.
	ExtraFixed ExtraCostMode = "fixed"
)

// FilamentLine is the weight of one filament used by a job.
type FilamentLine struct {
	FilamentID int64   `json:"filament_id" yaml:"filament_id"`
	Grams      float64 `json:"grams" yaml:"grams"`
}

// SupplyLine is the quantity of one accessory or packaging item used by a job.
type SupplyLine struct {
	ID       int64   `json:"id" yaml:"id"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

// Job holds every user-entered parameter of a print job.
type Job struct {
	Quantity           int            `json:"quantity" yaml:"quantity"`
	PrinterID          int64          `json:"printer_id" yaml:"printer_id"`
	Hours              float64        `json:"hours" yaml:"hours"`
	Minutes            float64        `json:"minutes" yaml:"minutes"`
	EnergyTariff       float64        `json:"energy_tariff" yaml:"energy_tariff"`
	Filaments          []FilamentLine `json:"filaments" yaml:"filaments"`
	Accessories        []SupplyLine   `json:"accessories" yaml:"accessories"`
	Packaging          []SupplyLine   `json:"packaging" yaml:"packaging"`
	PaintCost          float64        `json:"paint_cost" yaml:"paint_cost"`
	LaborCost          float64        `json:"labor_cost" yaml:"labor_cost"`
	LaborFailureProne  bool           `json:"labor_failure_prone" yaml:"labor_failure_prone"`
	TaxPercent         float64        `json:"tax_percent" yaml:"tax_percent"`
	ShippingCost       float64        `json:"shipping_cost" yaml:"shipping_cost"`
	MarketplacePercent float64        `json:"marketplace_percent" yaml:"marketplace_percent"`
	ExtraCost          float64        `json:"extra_cost" yaml:"extra_cost"`
	ExtraCostMode      ExtraCostMode  `json:"extra_cost_mode" yaml:"extra_cost_mode"`
	UnitPrice          float64        `json:"unit_price" yaml:"unit_price"`
}

// TotalHours converts the hours + minutes pair to decimal hours.
func (j Job) TotalHours() float64 {
	return j.Hours + j.Minutes/60.0
}

// Revenue is the unit sale price times the quantity.
func (j Job) Revenue() float64 {
	return j.UnitPrice * float64(j.Quantity)
}

// Breakdown contains every line item of the cost calculation at full precision.
type Breakdown struct {
	FilamentCost      float64 `json:"filament_cost"`
	EnergyCost        float64 `json:"energy_cost"`
	WearCost          float64 `json:"wear_cost"`
	AccessoryCost     float64 `json:"accessory_cost"`
	PackagingCost     float64 `json:"packaging_cost"`
	AdditionalCosts   float64 `json:"additional_costs"`
	ProductionCost    float64 `json:"production_cost"`
	FailureAdjustment float64 `json:"failure_adjustment"`
	ExtraCosts        float64 `json:"extra_costs"`
	Tax               float64 `json:"tax"`
	MarketplaceFee    float64 `json:"marketplace_fee"`
	TotalCost         float64 `json:"total_cost"`
	UnitCost          float64 `json:"unit_cost"`
	UnitProfit        float64 `json:"unit_profit"`
	TotalProfit       float64 `json:"total_profit"`
	MarginPercent     float64 `json:"margin_percent"`
}

// Calculate computes the cost breakdown of job against a catalog snapshot.
// Ids missing from the snapshot contribute nothing.
func Calculate(job Job, snap catalog.Snapshot) Breakdown {
	printer, hasPrinter := snap.Printer(job.PrinterID)
	hours := job.TotalHours()

	filamentCost := 0.0
	for _, line := range job.Filaments {
		f, ok := snap.Filament(line.FilamentID)
		if !ok || line.Grams <= 0 || f.SpoolWeightG <= 0 {
			continue
		}
		filamentCost += (line.Grams / f.SpoolWeightG) * f.SpoolCost
	}

	energyCost := 0.0
	wearCost := 0.0
	failureRate := 0.0
	if hasPrinter {
		if hours > 0 && job.EnergyTariff > 0 {
			energyCost = (printer.PowerWatts * hours / 1000.0) * job.EnergyTariff
		}
		if hours > 0 && printer.LifetimeHours > 0 {
			wearCost = (hours / printer.LifetimeHours) * printer.PurchasePrice
		}
		failureRate = printer.FailureRatePct
	}

	productionLabor, deliveryLabor := 0.0, job.LaborCost
	if job.LaborFailureProne {
		productionLabor, deliveryLabor = job.LaborCost, 0
	}
	production := filamentCost + energyCost + wearCost + productionLabor

	adjusted := production
	if failureRate > 0 && failureRate < 100 {
		adjusted = production / (1.0 - failureRate/100.0)
	}

	accessoryCost := 0.0
	for _, line := range job.Accessories {
		if a, ok := snap.Accessory(line.ID); ok {
			accessoryCost += a.UnitPrice * line.Quantity
		}
	}
	packagingCost := 0.0
	for _, line := range job.Packaging {
		if p, ok := snap.PackagingItem(line.ID); ok {
			packagingCost += p.UnitPrice * line.Quantity
		}
	}
	additional := job.PaintCost + job.ShippingCost + deliveryLabor

	revenue := job.Revenue()
	tax := revenue * (job.TaxPercent / 100.0)
	marketplace := revenue * (job.MarketplacePercent / 100.0)

	extra := job.ExtraCost
	if job.ExtraCostMode == ExtraPercent {
		extra = revenue * (job.ExtraCost / 100.0)
	}

	total := adjusted + accessoryCost + packagingCost + additional + tax + marketplace + extra

	unitCost := 0.0
	if job.Quantity > 0 {
		unitCost = total / float64(job.Quantity)
	}
	unitProfit := job.UnitPrice - unitCost
	margin := 0.0
	if job.UnitPrice > 0 {
		margin = (unitProfit / job.UnitPrice) * 100.0
	}

	return Breakdown{
		FilamentCost:      filamentCost,
		EnergyCost:        energyCost,
		WearCost:          wearCost,
		AccessoryCost:     accessoryCost,
		PackagingCost:     packagingCost,
		AdditionalCosts:   additional,
		ProductionCost:    production,
		FailureAdjustment: adjusted - production,
		ExtraCosts:        extra,
		Tax:               tax,
		MarketplaceFee:    marketplace,
		TotalCost:         total,
		UnitCost:          unitCost,
		UnitProfit:        unitProfit,
		TotalProfit:       unitProfit * float64(job.Quantity),
		MarginPercent:     margin,
	}
}
