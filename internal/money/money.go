// Package money rounds and formats float amounts for presentation. The cost
// engine works in float64 at full precision; rounding happens only here.
package money

import "github.com/shopspring/decimal"

// Round2 rounds v half away from zero to cents.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Format renders v with exactly two decimals, e.g. "7.46".
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatCurrency prefixes Format with a currency symbol or code.
func FormatCurrency(symbol string, v float64) string {
	if symbol == "" {
		return Format(v)
	}
	return symbol + " " + Format(v)
}

// Sum adds amounts in decimal so long report columns do not drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Float64()
	return f
}
