package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printcost/internal/jobs"
)

const sampleJob = `catalog:
  printers:
    - {id: 1, brand: Bambu, model: P1S, power_watts: 200, lifetime_hours: 8000, purchase_price: 4000, failure_rate_pct: 0}
  filaments:
    - {id: 7, material: PLA, spool_cost: 100, spool_weight_g: 1000}
  packaging:
    - {id: 3, name: Box, total_quantity: 10, total_price: 25}
job:
  quantity: 1
  printer_id: 1
  hours: 2
  energy_tariff: 1
  filaments: [{filament_id: 7, grams: 100}]
  packaging: [{id: 3, quantity: 2}]
  unit_price: 20
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeJob(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleJob), 0o600))
	return path
}

func TestLoadJobFileDerivesUnitPrices(t *testing.T) {
	f, err := loadJobFile(writeJob(t))
	require.NoError(t, err)

	snap := f.snapshot()
	box, ok := snap.PackagingItem(3)
	require.True(t, ok)
	assert.InDelta(t, 2.5, box.UnitPrice, 1e-12)
	assert.Equal(t, 2.0, f.Job.TotalHours())
}

func TestCalcJSON(t *testing.T) {
	out, err := runCLI(t, "calc", "-f", writeJob(t), "--json")
	require.NoError(t, err)

	var q jobs.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	// 10 filament + 0.4 energy + 1 wear + 5 packaging.
	assert.InDelta(t, 16.4, q.Breakdown.TotalCost, 1e-9)
	assert.InDelta(t, 18.0, q.Breakdown.MarginPercent, 1e-9)
	assert.Equal(t, "reasonable", q.Tier.Key)
}

func TestCalcText(t *testing.T) {
	out, err := runCLI(t, "calc", "-f", writeJob(t), "--show-taxes")
	require.NoError(t, err)

	assert.Contains(t, out, "Print time")
	assert.Contains(t, out, "2h")
	assert.Contains(t, out, "16.40")
	assert.Contains(t, out, "Cost composition")
	assert.Contains(t, out, "Taxes")
}

func TestCalcRequiresFile(t *testing.T) {
	_, err := runCLI(t, "calc")
	require.Error(t, err)

	_, err = runCLI(t, "calc", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMarginCommand(t *testing.T) {
	out, err := runCLI(t, "margin", "0.7")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "70.00%"), out)
	assert.Contains(t, out, "(good)")

	out, err = runCLI(t, "margin", "--json", "--", "-35")
	require.NoError(t, err)
	assert.Contains(t, out, `"key":"catastrophic"`)
}

func TestMigrateAndExport(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "cli.db"))

	out, err := runCLI(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "database at version 1")

	target := filepath.Join(t.TempDir(), "history.csv")
	_, err = runCLI(t, "export", "--user", "1", "--format", "csv", "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Client,Product"), string(data))

	_, err = runCLI(t, "export", "--user", "1", "--format", "pdf")
	require.Error(t, err)
}
