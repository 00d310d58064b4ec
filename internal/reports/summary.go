package reports

import (
	"sort"

	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/jobs"
	"github.com/Simplici0/printcost/internal/money"
)

// CategorySales aggregates the records of one category.
type CategorySales struct {
	CategoryID int64   `json:"category_id"`
	Category   string  `json:"category"`
	Sales      float64 `json:"sales"`
	Profit     float64 `json:"profit"`
	Quantity   int     `json:"quantity"`
	Prints     int     `json:"prints"`
}

// ProductSales aggregates the records of one product name.
type ProductSales struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
}

// Summary is the reports dashboard.
type Summary struct {
	ByCategory    []CategorySales `json:"by_category"`
	MostSold      *ProductSales   `json:"most_sold"`
	HighestMargin *jobs.Record    `json:"highest_margin"`
	TotalSales    float64         `json:"total_sales"`
	TotalProfit   float64         `json:"total_profit"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrints   int             `json:"total_prints"`
	// AverageMargin is total profit over total sales, in percent.
	AverageMargin float64 `json:"average_margin"`
}

// Summarize builds the dashboard. Every category appears, even without
// records, ordered by sales descending.
func Summarize(records []jobs.Record, categories []catalog.Category) Summary {
	t := Total(records)
	s := Summary{
		ByCategory:    make([]CategorySales, 0, len(categories)),
		TotalSales:    t.Sales,
		TotalProfit:   t.Profit,
		TotalQuantity: t.Quantity,
		TotalPrints:   t.Prints,
	}
	if t.Sales > 0 {
		s.AverageMargin = t.Profit / t.Sales * 100
	}

	for _, c := range categories {
		var matched []jobs.Record
		for _, r := range records {
			if r.CategoryID != nil && *r.CategoryID == c.ID {
				matched = append(matched, r)
			}
		}
		ct := Total(matched)
		s.ByCategory = append(s.ByCategory, CategorySales{
			CategoryID: c.ID,
			Category:   c.Name,
			Sales:      ct.Sales,
			Profit:     ct.Profit,
			Quantity:   ct.Quantity,
			Prints:     ct.Prints,
		})
	}
	sort.SliceStable(s.ByCategory, func(i, j int) bool {
		return s.ByCategory[i].Sales > s.ByCategory[j].Sales
	})

	products := map[string]*ProductSales{}
	var order []string
	for _, r := range records {
		p, ok := products[r.Product]
		if !ok {
			p = &ProductSales{Name: r.Product}
			products[r.Product] = p
			order = append(order, r.Product)
		}
		p.Quantity += r.Quantity
		p.Sales = money.Sum(p.Sales, r.Sales())
		p.Profit = money.Sum(p.Profit, r.TotalProfit)
	}
	for _, name := range order {
		if p := products[name]; s.MostSold == nil || p.Quantity > s.MostSold.Quantity {
			s.MostSold = p
		}
	}

	best := -1.0
	for _, r := range records {
		if r.UnitPrice <= 0 {
			continue
		}
		m := r.UnitProfit / r.UnitPrice * 100
		if s.HighestMargin == nil || m > best {
			best = m
			rec := r
			s.HighestMargin = &rec
		}
	}

	return s
}
