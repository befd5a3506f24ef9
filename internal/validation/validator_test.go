package validation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

func TestValidateCleanRecords(t *testing.T) {
	records := []types.Record{
		{"PO #": "1001", "PO Line No.": "0", "Quantity": json.Number("10"), "Cost in USD": "$1,005.00",
			"Date Entered": "3/4/2025 7:58 am", "Estimated Ready Date / ERD": "5/1/2025"},
		{"PO #": "1001", "PO Line No.": "1", "Quantity": "", "Cost in USD": nil},
	}

	result := NewValidator().ValidateAll(records)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.RecordsValidated)
}

func TestValidateFlagsIssues(t *testing.T) {
	records := []types.Record{
		{"PO #": "", "PO Line No.": "0"},
		{"PO #": "2001", "PO Line No.": "0", "Quantity": "ten", "Cost in USD": "5"},
		{"PO #": "2001", "PO Line No.": "1", "Estimated Ready Date / ERD": "2025-05-01"},
		{"PO #": "2001", "PO Line No.": "0"},
	}

	result := NewValidator().ValidateAll(records)

	require.Len(t, result.Errors, 4)
	assert.True(t, result.IsValid, "warnings never invalidate by default")
	assert.Equal(t, 4, result.WarningCount)

	assert.Equal(t, RuleRequired, result.Errors[0].Rule)
	assert.Equal(t, RuleNumeric, result.Errors[1].Rule)
	assert.Equal(t, "Quantity", result.Errors[1].Field)
	assert.Equal(t, "ten", result.Errors[1].Value)
	assert.Equal(t, RuleDate, result.Errors[2].Rule)
	assert.Equal(t, RuleUnique, result.Errors[3].Rule)
	assert.Equal(t, 3, result.Errors[3].RecordIndex)
	assert.Contains(t, result.Errors[3].Error(), "PO '2001' line '0'")
}

func TestValidateWarningsAsErrors(t *testing.T) {
	opts := DefaultValidationOptions()
	opts.TreatWarningsAsErrors = true

	result := NewValidatorWithOptions(opts).ValidateAll([]types.Record{{"PO #": ""}})

	assert.False(t, result.IsValid)
	assert.Equal(t, 0, result.ErrorCount)
}

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation.log")
	issues := Validate([]types.Record{{"PO #": "9", "Quantity": "x"}})

	require.NoError(t, WriteErrorLog(issues, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1 issue(s)")
	assert.Contains(t, string(data), "[WARNING]")
}

func TestFormatErrorsEmpty(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))
}
