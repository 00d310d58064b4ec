package reports

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/printcost/internal/jobs"
	"github.com/Simplici0/printcost/internal/money"
)

const dateLayout = "02/01/2006"

// Columns is the header row of both exports.
var Columns = []string{"Date", "Client", "Product", "Category", "Printer", "Quantity", "Total Cost", "Unit Price", "Total Profit"}

func row(r jobs.Record) []string {
	return []string{
		r.CreatedAt.Format(dateLayout),
		r.Client,
		r.Product,
		r.CategoryName,
		r.PrinterName,
		fmt.Sprint(r.Quantity),
		money.Format(r.TotalCost),
		money.Format(r.UnitPrice),
		money.Format(r.TotalProfit),
	}
}

// WriteCSV writes records with two-decimal amounts.
func WriteCSV(w io.Writer, records []jobs.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

const historySheet = "History"

// WriteXLSX writes records to a single-sheet workbook. Amounts are numeric
// cells rounded to cents.
func WriteXLSX(w io.Writer, records []jobs.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		values := []any{
			r.CreatedAt.Format(dateLayout),
			r.Client,
			r.Product,
			r.CategoryName,
			r.PrinterName,
			r.Quantity,
			money.Round2(r.TotalCost),
			money.Round2(r.UnitPrice),
			money.Round2(r.TotalProfit),
		}
		if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", r.ID, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(historySheet, "A1", "I1", style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
