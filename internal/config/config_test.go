package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMainConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "final_{date}.json", cfg.OutputFormat)
	assert.Equal(t, DefaultDropFields, cfg.DropFields)
	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)
	assert.Equal(t, 2, cfg.CSVSettings.DataStartRow)
	assert.False(t, cfg.Validation.WarningsAsErrors)

	policy, err := cfg.ResolvePolicy()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPolicy(), policy)
}

func TestLoadMainConfigPresetWithOverrides(t *testing.T) {
	path := writeConfig(t, `
inputs:
  po_source: Record.json
  paid_ledger: paid.csv
policy:
  preset: full-sourcing
  filter_closed_or_missing_erd: false
  date_bucket_granularity: day
drop_fields: []
reference_date: "2025-03-05"
validation:
  warnings_as_errors: true
`)
	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Record.json", cfg.Inputs.POSource)
	assert.Equal(t, "paid.csv", cfg.Inputs.PaidLedger)
	assert.Empty(t, cfg.DropFields)
	assert.NotNil(t, cfg.DropFields)
	assert.True(t, cfg.Validation.WarningsAsErrors)

	policy, err := cfg.ResolvePolicy()
	require.NoError(t, err)
	assert.Equal(t, types.BaseLineMinNumber, policy.BaseLineSelection)
	assert.False(t, policy.FilterClosedOrMissingERD)
	assert.Equal(t, types.RemainderOnUnpaid, policy.RemainderBase)
	assert.Equal(t, types.BucketByDay, policy.DateBucketGranularity)

	ref, err := cfg.ReferenceTime(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), ref)
}

func TestLoadMainConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"preset":    "policy:\n  preset: quarterly\n",
		"override":  "policy:\n  remainder_base: gross\n",
		"log level": "log_level: loud\n",
		"date":      "reference_date: 03/05/2025\n",
		"csv rows":  "csv_settings:\n  header_rows: 2\n  data_start_row: 2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestReferenceTimeDefaultsToNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	ref, err := Default().ReferenceTime(now)
	require.NoError(t, err)
	assert.Equal(t, now, ref)
}

func TestLoadNetSuite(t *testing.T) {
	t.Setenv("NETSUITE_ACCOUNT_ID", "1234567_SB1")
	t.Setenv("NETSUITE_RESTLET_URL", "https://example.test/restlet")
	t.Setenv("NETSUITE_AUTHORIZATION", "OAuth realm=x")
	t.Setenv("NETSUITE_TIMEOUT", "5s")

	cfg, err := LoadNetSuite()
	require.NoError(t, err)
	assert.Equal(t, "https://1234567-sb1.suitetalk.api.netsuite.com/services/rest/query/v1/suiteql", cfg.SuiteQLURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestNetSuiteValidate(t *testing.T) {
	cfg := &NetSuite{SuiteQLURL: "https://x", Authorization: "a"}
	assert.ErrorContains(t, cfg.Validate(), "NETSUITE_RESTLET_URL")
}
