package jobs

import (
	"strings"

	"github.com/Simplici0/printcost/internal/catalog"
)

// ValidationError lists every required field that is missing or invalid.
type ValidationError struct {
	Missing []string `json:"missing"`
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Validate checks a draft before it is recorded. The printer must exist in
// snap. It returns nil or a *ValidationError.
func Validate(d Draft, snap catalog.Snapshot) error {
	var missing []string

	if strings.TrimSpace(d.Client) == "" {
		missing = append(missing, "client")
	}
	if strings.TrimSpace(d.Product) == "" {
		missing = append(missing, "product")
	}
	if d.CategoryID <= 0 {
		missing = append(missing, "category")
	}
	if _, ok := snap.Printer(d.Job.PrinterID); !ok {
		missing = append(missing, "printer")
	}
	if d.Job.Hours*60+d.Job.Minutes < 1 {
		missing = append(missing, "print time (at least 1 minute)")
	}
	if d.Job.Quantity < 1 {
		missing = append(missing, "quantity (at least 1)")
	}
	hasFilament := false
	for _, line := range d.Job.Filaments {
		if line.FilamentID > 0 && line.Grams > 0 {
			hasFilament = true
			break
		}
	}
	if !hasFilament {
		missing = append(missing, "filament with weight above 0")
	}
	if d.Job.EnergyTariff <= 0 {
		missing = append(missing, "energy tariff above 0")
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
