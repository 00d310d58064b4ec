// Package reports filters, summarises and exports the print history.
package reports

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Simplici0/printcost/internal/jobs"
	"github.com/Simplici0/printcost/internal/money"
)

// SortKey orders history listings.
type SortKey string

const (
	SortDate   SortKey = "date"
	SortClient SortKey = "client"
	SortProfit SortKey = "profit"
)

// Query selects and orders history records. CategoryID 0 means all.
type Query struct {
	CategoryID int64
	Sort       SortKey
	Desc       bool
}

// DefaultQuery lists everything, newest first.
func DefaultQuery() Query {
	return Query{Sort: SortDate, Desc: true}
}

// ParseQuery reads the query-string form: category id, sort key and
// "asc" or "desc". Empty values keep the defaults.
func ParseQuery(category, sortKey, order string) (Query, error) {
	q := DefaultQuery()

	if category != "" {
		id, err := strconv.ParseInt(category, 10, 64)
		if err != nil || id < 0 {
			return Query{}, fmt.Errorf("invalid category %q", category)
		}
		q.CategoryID = id
	}

	switch SortKey(sortKey) {
	case "":
	case SortDate, SortClient, SortProfit:
		q.Sort = SortKey(sortKey)
	default:
		return Query{}, fmt.Errorf("invalid sort %q", sortKey)
	}

	switch strings.ToLower(order) {
	case "", "desc":
	case "asc":
		q.Desc = false
	default:
		return Query{}, fmt.Errorf("invalid order %q", order)
	}

	return q, nil
}

// Apply returns the matching records in the requested order. The input is
// not modified.
func Apply(records []jobs.Record, q Query) []jobs.Record {
	out := make([]jobs.Record, 0, len(records))
	for _, r := range records {
		if q.CategoryID != 0 && (r.CategoryID == nil || *r.CategoryID != q.CategoryID) {
			continue
		}
		out = append(out, r)
	}

	compare := func(a, b jobs.Record) int {
		switch q.Sort {
		case SortClient:
			return strings.Compare(strings.ToLower(a.Client), strings.ToLower(b.Client))
		case SortProfit:
			return compareFloat(a.TotalProfit, b.TotalProfit)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if q.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Totals aggregates a listing.
type Totals struct {
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
	Quantity int     `json:"quantity"`
	Prints   int     `json:"prints"`
}

func Total(records []jobs.Record) Totals {
	sales := make([]float64, 0, len(records))
	profit := make([]float64, 0, len(records))
	t := Totals{Prints: len(records)}
	for _, r := range records {
		sales = append(sales, r.Sales())
		profit = append(profit, r.TotalProfit)
		t.Quantity += r.Quantity
	}
	t.Sales = money.Sum(sales...)
	t.Profit = money.Sum(profit...)
	return t
}

// FormatHours renders decimal hours as "2h 30min".
func FormatHours(hours float64) string {
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	if m == 60 {
		h, m = h+1, 0
	}
	return fmt.Sprintf("%.0fh %.0fmin", h, m)
}
