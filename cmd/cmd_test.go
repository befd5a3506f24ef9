package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/pipeline"
)

func TestRequireInputs(t *testing.T) {
	err := requireInputs(config.InputPaths{POSource: "Record.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--vendors, --terms, --paid")

	assert.NoError(t, requireInputs(config.InputPaths{
		POSource: "a", Vendors: "b", TermDefinitions: "c", PaidLedger: "d",
	}))
}

func TestApplyProcessFlags(t *testing.T) {
	t.Cleanup(func() { poPath, policyName, nowFlag = "", "", "" })
	poPath, policyName, nowFlag = "Record.json", "full-sourcing", "2025-03-15"

	cfg := config.Default()
	cfg.Inputs.Vendors = "VendorID.json"
	applyProcessFlags(cfg)

	assert.Equal(t, "Record.json", cfg.Inputs.POSource)
	assert.Equal(t, "VendorID.json", cfg.Inputs.Vendors)
	assert.Equal(t, "full-sourcing", cfg.Policy.Preset)
	assert.Equal(t, "2025-03-15", cfg.ReferenceDate)
	assert.False(t, cfg.Validation.WarningsAsErrors)

	strict = true
	t.Cleanup(func() { strict = false })
	applyProcessFlags(cfg)
	assert.True(t, cfg.Validation.WarningsAsErrors)
}

func TestRunProcessStrictWritesValidationLog(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.ReferenceDate = "2025-03-15"
	cfg.Inputs = config.InputPaths{
		POSource: write("Record.json", `{"data":[{"PO #":"1001","PO Line No.":"0","Supplier":"Acme","ID":"V1","Quantity":"ten","Cost in USD":"5.00","Estimated Ready Date / ERD":"5/1/2025","Date Entered":"3/1/2025"}]}`),
		Vendors:  write("VendorID.json", `{"items":[{"entityid":"V1","companyname":"Acme","term_name":"Net 30"}]}`),
		TermDefinitions: write("PTDefine.csv",
			"Term Name,Deposit Required,Prepay % (Due <= ERD),Net Days (Due post ERD)\nNet 30,0%,0%,30\n"),
		PaidLedger: write("paid.csv", "PO,Debit Amount\n"),
	}

	saved := mainConfig
	mainConfig = cfg
	strict = true
	t.Cleanup(func() { mainConfig, strict = saved, false })

	err := runProcess(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrValidationFailed)

	logs, err := filepath.Glob(filepath.Join(cfg.OutputDir, "validation_*.txt"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	finals, err := filepath.Glob(filepath.Join(cfg.OutputDir, "final_*.json"))
	require.NoError(t, err)
	assert.Empty(t, finals)
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "final.json")
	require.NoError(t, os.WriteFile(final, []byte(`{
  "data": [
    {"Supplier": "Acme", "PO #": "1001",
     "Deposit": {"Deposit anchor": "Mar", "Deposit $ Due": 120}}
  ],
  "totalLines": 1
}`), 0644))

	mainConfig = config.Default()
	t.Cleanup(func() { finalPath, reportHTMLPath, reportXLSXPath, reportNow = "", "", "", "" })
	finalPath = final
	reportHTMLPath = filepath.Join(dir, "summary.html")
	reportXLSXPath = filepath.Join(dir, "plan.xlsx")
	reportNow = "2025-03-15"

	require.NoError(t, runReport())

	page, err := os.ReadFile(reportHTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<td>Acme</td>")
	assert.Contains(t, string(page), "<td>120</td>")
	assert.Contains(t, string(page), "3/15/2025")
	assert.FileExists(t, reportXLSXPath)
}

func TestRunReportNeedsOutput(t *testing.T) {
	mainConfig = config.Default()
	assert.Error(t, runReport())
}
