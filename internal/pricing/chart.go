package pricing

// ChartOptions toggles the optional slices of the cost chart.
type ChartOptions struct {
	ShowTaxes    bool `json:"show_taxes"`
	ShowFailures bool `json:"show_failures"`
}

// Slice is one labelled share of the cost chart.
type Slice struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Share    float64 `json:"share"`
	Optional bool    `json:"optional"`
}

// Slices lays the breakdown out as chart slices. Share is each value's
// fraction of the charted total, 0 when nothing is charted.
func (b Breakdown) Slices(opts ChartOptions) []Slice {
	all := []Slice{
		{Key: "filament", Label: "Filament", Value: b.FilamentCost},
		{Key: "energy", Label: "Energy", Value: b.EnergyCost},
		{Key: "wear", Label: "Wear", Value: b.WearCost},
		{Key: "accessories", Label: "Accessories", Value: b.AccessoryCost},
		{Key: "packaging", Label: "Packaging", Value: b.PackagingCost},
		{Key: "additional", Label: "Additional", Value: b.AdditionalCosts},
		{Key: "extra", Label: "Extra costs", Value: b.ExtraCosts},
		{Key: "failures", Label: "Failure adjustment", Value: b.FailureAdjustment, Optional: true},
		{Key: "tax", Label: "Taxes", Value: b.Tax, Optional: true},
		{Key: "marketplace", Label: "Marketplace", Value: b.MarketplaceFee, Optional: true},
	}

	out := make([]Slice, 0, len(all))
	total := 0.0
	for _, s := range all {
		switch s.Key {
		case "failures":
			if !opts.ShowFailures {
				continue
			}
		case "tax", "marketplace":
			if !opts.ShowTaxes {
				continue
			}
		}
		total += s.Value
		out = append(out, s)
	}

	if total == 0 {
		return out
	}
	for i := range out {
		out[i].Share = out[i].Value / total
	}
	return out
}
