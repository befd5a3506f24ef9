// =============================================================================
// PO Payment Schedule - PO Workbook Parser
// =============================================================================
//
// This module converts an open-PO workbook export into the PO source JSON
// shape the pipeline reads ({success, totalRecords, data}).
//
// WORKBOOK STRUCTURE (Expected Layout):
//   The first sheet (or Options.Sheet) holds one PO line per row.
//
//   | Row 1 | Supplier | ID  | PO #  | PO Line No. | Quantity | Cost in USD | Estimated Ready Date / ERD | Date Entered |
//   |-------|----------|-----|-------|-------------|----------|-------------|----------------------------|--------------|
//   | Row 2 | Acme     | V1  | 1001  | 0           | 10       | 5           | 45778                      | 45717.5      |
//
// DATE HANDLING:
//   Date cells usually arrive as Excel serial numbers. Date-time columns are
//   written as "M/D/YYYY H:MM", date-only columns as "M/D/YYYY". Text dates
//   already in that shape are kept; other text is kept as typed.
//
// Every other value is written as text, the way the upstream search export
// delivers it.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/po-payment-schedule/internal/ingest"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

var (
	dateTimePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}\s\d{1,2}:\d{2}$`)
	dateOnlyPattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

	// textLayouts are tried, in order, on text dates in neither shape.
	textLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"Jan 2, 2006",
		"January 2, 2006",
	}
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configure a conversion.
type Options struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string

	// DateTimeFields are written as M/D/YYYY H:MM.
	DateTimeFields []string

	// DateOnlyFields are written as M/D/YYYY.
	DateOnlyFields []string
}

// DefaultOptions returns the column lists of the open-PO export.
func DefaultOptions() Options {
	return Options{
		DateTimeFields: []string{"As Of Date", types.FieldDateEntered},
		DateOnlyFields: []string{
			types.FieldERD,
			"Early Pickup date",
			"Late Pickup Date",
			"Earliest Delivery Date",
			"LATEST DELIVERY DATE",
			"ESTIMATED READY DATE",
		},
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParsePurchaseOrders reads a PO workbook.
//
// PARAMETERS:
//   - path: The XLSX file.
//   - opts: Sheet selection and date column lists.
//
// RETURNS:
//   - A PO source with one record per non-empty data row. A workbook with
//     only a header row yields an empty data array.
//   - An error if the file cannot be opened or the sheet does not exist.
func ParsePurchaseOrders(path string, opts Options) (*ingest.POSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := opts.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	// Raw values keep date serials as numbers instead of display strings.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet '%s': %w", sheetName, err)
	}

	src := &ingest.POSource{Success: true, Data: []types.Record{}}
	if len(rows) < 2 {
		return src, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	dateTime := toSet(opts.DateTimeFields)
	dateOnly := toSet(opts.DateOnlyFields)

	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}

		rec := make(types.Record, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}

			switch {
			case dateTime[header]:
				value = FormatDateTime(value)
			case dateOnly[header]:
				value = FormatDateOnly(value)
			}
			rec[header] = value
		}
		src.Data = append(src.Data, rec)
	}

	src.TotalRecords = len(src.Data)
	return src, nil
}

// FormatDateTime renders a cell as M/D/YYYY H:MM.
func FormatDateTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, ok := fromSerial(value); ok {
		return fmt.Sprintf("%d/%d/%d %d:%02d", int(t.Month()), t.Day(), t.Year(), t.Hour(), t.Minute())
	}
	if dateTimePattern.MatchString(value) {
		return value
	}
	if t, ok := fromText(value); ok {
		return fmt.Sprintf("%d/%d/%d %d:%02d", int(t.Month()), t.Day(), t.Year(), t.Hour(), t.Minute())
	}
	return value
}

// FormatDateOnly renders a cell as M/D/YYYY. Text carrying a time keeps
// only its first word.
func FormatDateOnly(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, ok := fromSerial(value); ok {
		return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
	}
	if dateOnlyPattern.MatchString(value) {
		return value
	}
	if strings.Contains(value, ":") {
		return strings.Fields(value)[0]
	}
	if t, ok := fromText(value); ok {
		return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
	}
	return value
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// fromSerial converts a positive Excel serial number (1900 date system).
func fromSerial(value string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func fromText(value string) (time.Time, bool) {
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
