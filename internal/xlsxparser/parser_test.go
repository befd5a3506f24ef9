package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}

	path := filepath.Join(t.TempDir(), "PurchaseOrder.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParsePurchaseOrders(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Supplier", "PO #", "PO Line No.", "Quantity", "Estimated Ready Date / ERD", "Date Entered", ""},
		{"Acme", "1001", 0, 10, 45778, 45717.5, "ignored"},
		{"", "", "", "", "", "", ""},
		{"Beta", "2002", "1", "4", "5/2/2025", "3/4/2025 7:58", ""},
	})

	src, err := ParsePurchaseOrders(path, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, src.Success)
	assert.Equal(t, 2, src.TotalRecords)
	require.Len(t, src.Data, 2)

	first := src.Data[0]
	assert.Equal(t, "Acme", first["Supplier"])
	assert.Equal(t, "0", first["PO Line No."])
	assert.Equal(t, "10", first["Quantity"])
	assert.Equal(t, "5/1/2025", first["Estimated Ready Date / ERD"])
	assert.Equal(t, "3/1/2025 12:00", first["Date Entered"])
	assert.NotContains(t, first, "", "blank headers are dropped")

	second := src.Data[1]
	assert.Equal(t, "5/2/2025", second["Estimated Ready Date / ERD"])
	assert.Equal(t, "3/4/2025 7:58", second["Date Entered"])
}

func TestParseHeaderOnly(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Supplier", "PO #"}})

	src, err := ParsePurchaseOrders(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, src.TotalRecords)
	assert.NotNil(t, src.Data)
	assert.Empty(t, src.Data)
}

func TestParseMissingFile(t *testing.T) {
	_, err := ParsePurchaseOrders(filepath.Join(t.TempDir(), "none.xlsx"), DefaultOptions())
	require.Error(t, err)
}

func TestParseUnknownSheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Supplier"}})
	opts := DefaultOptions()
	opts.Sheet = "Nope"

	_, err := ParsePurchaseOrders(path, opts)
	require.Error(t, err)
}

func TestFormatDates(t *testing.T) {
	assert.Equal(t, "", FormatDateOnly(""))
	assert.Equal(t, "1/1/2025", FormatDateOnly("45658"))
	assert.Equal(t, "4/30/2025", FormatDateOnly("4/30/2025 10:00 am"))
	assert.Equal(t, "4/30/2025", FormatDateOnly("2025-04-30"))
	assert.Equal(t, "TBD", FormatDateOnly("TBD"))

	assert.Equal(t, "1/1/2025 0:00", FormatDateTime("45658"))
	assert.Equal(t, "4/30/2025 9:05", FormatDateTime("2025-04-30 09:05"))
	assert.Equal(t, "soon", FormatDateTime("soon"))
}
