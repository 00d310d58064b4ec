package reports

import (
	"bytes"
	"encoding/csv"
	"math"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/jobs"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func ptr(v int64) *int64 { return &v }

func sampleRecords() []jobs.Record {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 10, 0, 0, 0, time.UTC) }
	return []jobs.Record{
		{ID: 1, CreatedAt: day(1), Client: "bruno", Product: "Vase", CategoryID: ptr(1), CategoryName: "Decor", PrinterName: "P1S", Quantity: 2, TotalCost: 20, UnitPrice: 30, UnitProfit: 20, TotalProfit: 40},
		{ID: 2, CreatedAt: day(3), Client: "Ana", Product: "Keychain", CategoryID: ptr(2), CategoryName: "Gifts", PrinterName: "P1S", Quantity: 10, TotalCost: 15, UnitPrice: 5, UnitProfit: 3.5, TotalProfit: 35},
		{ID: 3, CreatedAt: day(2), Client: "Carla", Product: "Vase", CategoryID: ptr(1), CategoryName: "Decor", PrinterName: "Ender", Quantity: 1, TotalCost: 12, UnitPrice: 10, UnitProfit: -2, TotalProfit: -2},
		{ID: 4, CreatedAt: day(4), Client: "Dan", Product: "Sample", Quantity: 1, TotalCost: 3},
	}
}

func ids(records []jobs.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(t *testing.T, got []jobs.Record, want ...int64) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestApply(t *testing.T) {
	records := sampleRecords()

	equalIDs(t, Apply(records, DefaultQuery()), 4, 2, 3, 1)
	equalIDs(t, Apply(records, Query{Sort: SortDate}), 1, 3, 2, 4)
	equalIDs(t, Apply(records, Query{Sort: SortClient}), 2, 1, 3, 4)
	equalIDs(t, Apply(records, Query{Sort: SortProfit, Desc: true}), 1, 2, 4, 3)
	equalIDs(t, Apply(records, Query{CategoryID: 1, Sort: SortDate}), 1, 3)

	if records[0].ID != 1 {
		t.Fatalf("input was reordered")
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("", "", "")
	if err != nil || q != DefaultQuery() {
		t.Fatalf("ParseQuery defaults = %+v, %v", q, err)
	}

	q, err = ParseQuery("2", "profit", "ASC")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.CategoryID != 2 || q.Sort != SortProfit || q.Desc {
		t.Fatalf("unexpected query %+v", q)
	}

	for _, bad := range [][3]string{{"x", "", ""}, {"", "price", ""}, {"", "", "up"}, {"-1", "", ""}} {
		if _, err := ParseQuery(bad[0], bad[1], bad[2]); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}

func TestSummarize(t *testing.T) {
	cats := []catalog.Category{{ID: 2, Name: "Gifts"}, {ID: 1, Name: "Decor"}, {ID: 3, Name: "Empty"}}
	s := Summarize(sampleRecords(), cats)

	nearlyEqual(t, "TotalSales", s.TotalSales, 60+50+10)
	nearlyEqual(t, "TotalProfit", s.TotalProfit, 40+35-2)
	nearlyEqual(t, "AverageMargin", s.AverageMargin, 73.0/120*100)
	if s.TotalQuantity != 14 || s.TotalPrints != 4 {
		t.Fatalf("unexpected totals %+v", s)
	}

	if len(s.ByCategory) != 3 || s.ByCategory[0].Category != "Decor" || s.ByCategory[2].Category != "Empty" {
		t.Fatalf("unexpected categories %+v", s.ByCategory)
	}
	nearlyEqual(t, "Decor sales", s.ByCategory[0].Sales, 70)
	if s.ByCategory[0].Prints != 2 || s.ByCategory[0].Quantity != 3 {
		t.Fatalf("unexpected Decor stats %+v", s.ByCategory[0])
	}

	if s.MostSold == nil || s.MostSold.Name != "Keychain" || s.MostSold.Quantity != 10 {
		t.Fatalf("unexpected most sold %+v", s.MostSold)
	}
	if s.HighestMargin == nil || s.HighestMargin.ID != 2 {
		t.Fatalf("unexpected highest margin %+v", s.HighestMargin)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	if s.MostSold != nil || s.HighestMargin != nil || s.AverageMargin != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()[:2]); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	want := []string{"01/03/2025", "bruno", "Vase", "Decor", "P1S", "2", "20.00", "30.00", "40.00"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Fatalf("row = %v, want %v", rows[1], want)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0][0] != "Date" || rows[2][1] != "Ana" || rows[2][8] != "35" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestFormatHours(t *testing.T) {
	cases := map[float64]string{2.5: "2h 30min", 0: "0h 0min", 1.999: "2h 0min", 0.25: "0h 15min"}
	for in, want := range cases {
		if got := FormatHours(in); got != want {
			t.Fatalf("FormatHours(%v) = %q, want %q", in, got, want)
		}
	}
}
