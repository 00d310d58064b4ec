package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/jobs"
	"github.com/Simplici0/printcost/internal/money"
	"github.com/Simplici0/printcost/internal/pricing"
	"github.com/Simplici0/printcost/internal/reports"
)

// jobFile is a self-contained job: the catalog entries it refers to and the
// job parameters.
type jobFile struct {
	Catalog struct {
		Printers    []catalog.Printer  `yaml:"printers"`
		Filaments   []catalog.Filament `yaml:"filaments"`
		Accessories []catalog.Supply   `yaml:"accessories"`
		Packaging   []catalog.Supply   `yaml:"packaging"`
	} `yaml:"catalog"`
	Job   pricing.Job          `yaml:"job"`
	Chart pricing.ChartOptions `yaml:"chart"`
}

func loadJobFile(path string) (jobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jobFile{}, fmt.Errorf("read job file: %w", err)
	}

	var f jobFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return jobFile{}, fmt.Errorf("parse job file %s: %w", path, err)
	}

	deriveUnitPrices(f.Catalog.Accessories)
	deriveUnitPrices(f.Catalog.Packaging)
	return f, nil
}

// deriveUnitPrices fills unit prices left out of the file from the lot
// price and size.
func deriveUnitPrices(items []catalog.Supply) {
	for i := range items {
		if items[i].UnitPrice == 0 {
			items[i].UnitPrice = catalog.UnitPrice(items[i].TotalPrice, items[i].TotalQuantity)
		}
	}
}

func (f jobFile) snapshot() catalog.Snapshot {
	return catalog.NewSnapshot(f.Catalog.Printers, f.Catalog.Filaments, f.Catalog.Accessories, f.Catalog.Packaging)
}

func newCalcCmd() *cobra.Command {
	var (
		file     string
		asJSON   bool
		showTax  bool
		showFail bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the cost breakdown of a job file",
		Long: `Calculate the cost breakdown, profit and margin tier of a job described
in a YAML file holding the catalog entries and the job parameters.

Example job file:
  catalog:
    printers:
      - {id: 1, brand: Bambu, model: P1S, power_watts: 200, lifetime_hours: 8000, purchase_price: 4000}
    filaments:
      - {id: 1, material: PLA, spool_cost: 100, spool_weight_g: 1000}
  job:
    quantity: 1
    printer_id: 1
    hours: 2
    energy_tariff: 0.85
    filaments: [{filament_id: 1, grams: 100}]
    unit_price: 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := loadJobFile(file)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("show-taxes") {
				f.Chart.ShowTaxes = showTax
			}
			if cmd.Flags().Changed("show-failures") {
				f.Chart.ShowFailures = showFail
			}

			q := jobs.Price(f.Job, f.snapshot(), f.Chart)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(q)
			}
			return printQuote(cmd.OutOrStdout(), f.Job, q)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "job file (YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&showTax, "show-taxes", false, "include taxes and marketplace fees in the chart")
	cmd.Flags().BoolVar(&showFail, "show-failures", false, "include the failure adjustment in the chart")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printQuote(w io.Writer, job pricing.Job, q jobs.Quote) error {
	b := q.Breakdown
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	rows := []struct {
		label string
		value float64
	}{
		{"Filament", b.FilamentCost},
		{"Energy", b.EnergyCost},
		{"Wear", b.WearCost},
		{"Failure adjustment", b.FailureAdjustment},
		{"Accessories", b.AccessoryCost},
		{"Packaging", b.PackagingCost},
		{"Additional", b.AdditionalCosts},
		{"Extra costs", b.ExtraCosts},
		{"Taxes", b.Tax},
		{"Marketplace", b.MarketplaceFee},
		{"Total cost", b.TotalCost},
		{"Unit cost", b.UnitCost},
		{"Unit price", job.UnitPrice},
		{"Unit profit", b.UnitProfit},
		{"Total profit", b.TotalProfit},
	}

	fmt.Fprintf(tw, "Print time\t%s\t\n", reports.FormatHours(job.TotalHours()))
	fmt.Fprintf(tw, "Quantity\t%d\t\n", job.Quantity)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", r.label, money.Format(r.value))
	}
	fmt.Fprintf(tw, "Margin\t%s%%\t\n", money.Format(b.MarginPercent))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s: %s\n", q.Tier.Label, q.Tier.Message)

	if len(q.Slices) > 0 {
		fmt.Fprintln(w, "\nCost composition")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, s := range q.Slices {
			fmt.Fprintf(tw, "%s\t%s\t%s%%\t\n", s.Label, money.Format(s.Value), money.Format(s.Share*100))
		}
		return tw.Flush()
	}
	return nil
}
