package main

import (
	"strings"

	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/quote"
)

func checkNonNegative(field string, value float64) error {
	if value < 0 {
		return badRequestf("%s must be at least 0", field)
	}
	return nil
}

func checkPercent(field string, value float64) error {
	if err := checkNonNegative(field, value); err != nil {
		return err
	}
	if value > 100 {
		return badRequestf("%s must be between 0 and 100", field)
	}
	return nil
}

func checkPositive(field string, value float64) error {
	if value <= 0 {
		return badRequestf("%s must be above 0", field)
	}
	return nil
}

func checkRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return badRequestf("%s is required", field)
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func validatePrinter(p *catalog.Printer) error {
	p.Brand = strings.TrimSpace(p.Brand)
	p.Model = strings.TrimSpace(p.Model)
	if p.Name() == "" {
		return badRequestf("brand or model is required")
	}
	return firstError(
		checkNonNegative("power_watts", p.PowerWatts),
		checkNonNegative("lifetime_hours", p.LifetimeHours),
		checkNonNegative("purchase_price", p.PurchasePrice),
		checkPercent("failure_rate_pct", p.FailureRatePct),
	)
}

func validateFilament(f *catalog.Filament) error {
	f.Brand = strings.TrimSpace(f.Brand)
	f.Material = strings.TrimSpace(f.Material)
	f.Color = strings.TrimSpace(f.Color)
	return firstError(
		checkRequired("material", f.Material),
		checkNonNegative("spool_cost", f.SpoolCost),
		checkPositive("spool_weight_g", f.SpoolWeightG),
		checkNonNegative("stock_g", f.StockG),
	)
}

func validateSupply(item *catalog.Supply) error {
	item.Name = strings.TrimSpace(item.Name)
	return firstError(
		checkRequired("name", item.Name),
		checkPositive("total_quantity", item.TotalQuantity),
		checkNonNegative("total_price", item.TotalPrice),
	)
}

func validateQuoteRequest(req *quote.Request) error {
	req.Client = strings.TrimSpace(req.Client)
	req.Product = strings.TrimSpace(req.Product)
	if req.Quantity < 1 {
		return badRequestf("quantity must be at least 1")
	}
	return firstError(
		checkRequired("client", req.Client),
		checkRequired("product", req.Product),
		checkNonNegative("unit_price", req.UnitPrice),
		checkNonNegative("shipping", req.Shipping),
		checkNonNegative("discount", req.Discount),
	)
}
