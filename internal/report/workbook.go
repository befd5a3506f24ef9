package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/po-payment-schedule/internal/ingest"
	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// Sheet names.
const (
	SheetPayPlan     = "Vendor Pay Plan"
	SheetSchedule    = "Payment Schedule"
	SheetDiagnostics = "Diagnostics"
	SheetVendors     = "vendor ID"
	SheetSource      = "full Records Source"
)

// leadingSourceColumns open the "full Records Source" sheet; the remaining
// keys follow in sorted order.
var leadingSourceColumns = []string{
	types.FieldSupplier,
	types.FieldVendorID,
	types.FieldPONumber,
	types.FieldLineNumber,
	types.FieldQuantity,
	types.FieldCostUSD,
	types.FieldERD,
	types.FieldDateEntered,
}

// scheduleColumns are the record-level columns of the schedule sheet. A
// column the record lacks (Balance on a pass-through line) stays blank.
var scheduleColumns = []string{
	types.FieldPONumber,
	types.FieldSupplier,
	types.FieldTermName,
	types.FieldBalance,
	types.FieldPaid,
	types.FieldERDConflict,
}

// blockColumns are the columns taken from each schedule block.
var blockColumns = map[string][]string{
	types.FieldDeposit:     {"Deposit Date", "Deposit % Due", "Deposit anchor", "Deposit $ Due"},
	types.FieldPrepayBlock: {"Prepay Date", "Prepay % Due", "Prepay anchor", "Prepay $ Due"},
	types.FieldUnpaid:      {"value", "Unpaid Date", "Unpaid % Due", "Unpaid anchor", "Unpaid $ Due"},
}

// WorkbookInput is what WriteWorkbook exports. Vendors and Source are
// optional; their sheets are skipped when nil.
type WorkbookInput struct {
	Summary *Summary
	Final   *types.FinalReport
	Vendors *ingest.VendorFile
	Source  *ingest.POSource
}

// WriteWorkbook writes the pay plan workbook to path.
//
// SHEETS:
//   - Vendor Pay Plan     : the Summary, one row per supplier plus a total
//   - Payment Schedule    : one row per record with its three blocks
//   - Diagnostics         : the final report counters and lists
//   - vendor ID           : the vendor file (optional)
//   - full Records Source : the raw PO source (optional)
func WriteWorkbook(path string, in WorkbookInput) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetPayPlan); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	w := &sheetWriter{f: f, bold: bold}

	w.payPlan(in.Summary)
	if in.Final != nil {
		w.schedule(in.Final.Data)
		w.diagnostics(in.Final)
	}
	if in.Vendors != nil {
		w.vendors(in.Vendors)
	}
	if in.Source != nil {
		w.source(in.Source)
	}
	if w.err != nil {
		return fmt.Errorf("failed to build workbook: %w", w.err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// =============================================================================
// SHEET WRITER
// =============================================================================

// sheetWriter keeps the first error so sheet builders stay linear.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) newSheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *sheetWriter) row(sheet string, rowNum int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) header(sheet string, rowNum int, values []string) {
	w.row(sheet, rowNum, toAny(values))
	if w.err != nil {
		return
	}
	w.err = w.f.SetRowStyle(sheet, rowNum, rowNum, w.bold)
}

func (w *sheetWriter) payPlan(summary *Summary) {
	if summary == nil {
		return
	}
	w.header(SheetPayPlan, 1, summary.Headers())
	for i, r := range summary.Rows {
		w.row(SheetPayPlan, i+2, summaryRow(r))
	}
	w.row(SheetPayPlan, len(summary.Rows)+2, summaryRow(summary.Total))
}

func (w *sheetWriter) schedule(records []types.Record) {
	w.newSheet(SheetSchedule)

	headers := append([]string{}, scheduleColumns...)
	for _, kind := range Kinds {
		for _, col := range blockColumns[kind] {
			headers = append(headers, kind+": "+col)
		}
	}
	w.header(SheetSchedule, 1, headers)

	for i, rec := range records {
		values := make([]any, 0, len(headers))
		for _, col := range scheduleColumns {
			switch {
			case !rec.Has(col):
				values = append(values, nil)
			case col == types.FieldBalance || col == types.FieldPaid:
				values = append(values, money.Round2(money.ParseAny(rec[col])).InexactFloat64())
			default:
				values = append(values, types.Stringify(rec[col]))
			}
		}
		for _, kind := range Kinds {
			fields := blockMap(rec[kind])
			for _, col := range blockColumns[kind] {
				if strings.HasSuffix(col, "$ Due") || col == "value" {
					values = append(values, money.Round2(money.ParseAny(fields[col])).InexactFloat64())
				} else {
					values = append(values, types.Stringify(fields[col]))
				}
			}
		}
		w.row(SheetSchedule, i+2, values)
	}
}

func (w *sheetWriter) diagnostics(final *types.FinalReport) {
	w.newSheet(SheetDiagnostics)
	w.header(SheetDiagnostics, 1, []string{"Item", "Value"})

	rows := [][]any{
		{"totalLines", final.TotalLines},
		{"POs Amounts", final.POCount},
		{"Removals Dulplicate Line", final.RemovedDuplicateLines},
		{"Removed Invalid Lines", final.RemovedInvalidLines},
		{"undefinePT_AmountEffected", types.Stringify(final.EmptyTermAmount)},
		{"Mutiple ERDs conflict PO Count", final.ERDConflictPOCount},
		{"Error Estimation Due To Line Conflicts", final.ERDConflictAmount},
		{"Empty Payment_Terms POs", strings.Join(final.EmptyTermPOs, ", ")},
		{"Empty Payment_Terms Vendors", strings.Join(final.EmptyTermVendors, ", ")},
		{"Having Payment Term Value but not in PTDefine.csv Vendors", strings.Join(final.UndefinedTermVendors, ", ")},
		{"Having Payment Term Value but not in PTDefine.csv POs", strings.Join(final.UndefinedTermPOs, ", ")},
	}
	for i, r := range rows {
		w.row(SheetDiagnostics, i+2, r)
	}
}

func (w *sheetWriter) vendors(file *ingest.VendorFile) {
	w.newSheet(SheetVendors)
	count := file.Count
	if count == 0 {
		count = len(file.Items)
	}
	w.row(SheetVendors, 1, []any{"count", count})
	w.header(SheetVendors, 2, []string{"companyname", "entityid", "id", "term_name", "terms"})
	for i, v := range file.Items {
		w.row(SheetVendors, i+3, []any{
			v.CompanyName.String(),
			v.EntityID.String(),
			v.ID.String(),
			v.TermName.String(),
			v.Terms.String(),
		})
	}
}

func (w *sheetWriter) source(src *ingest.POSource) {
	w.newSheet(SheetSource)
	w.row(SheetSource, 1, []any{"totalRecords", src.TotalRecords})

	columns := SourceColumns(src.Data)
	w.header(SheetSource, 2, columns)
	for i, rec := range src.Data {
		values := make([]any, len(columns))
		for j, col := range columns {
			values[j] = types.Stringify(rec[col])
		}
		w.row(SheetSource, i+3, values)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// SourceColumns returns the union of record keys: the well-known PO columns
// that occur, then every other key sorted.
func SourceColumns(records []types.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for key := range rec {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for _, key := range leadingSourceColumns {
		if seen[key] {
			columns = append(columns, key)
			delete(seen, key)
		}
	}
	rest := make([]string, 0, len(seen))
	for key := range seen {
		rest = append(rest, key)
	}
	slices.Sort(rest)
	return append(columns, rest...)
}

// summaryRow flattens a Row; zero amounts are blank cells.
func summaryRow(r Row) []any {
	values := []any{r.Supplier}
	for _, c := range r.Cells {
		for _, kind := range SubColumns {
			amount := money.Round2(c.Amount(kind))
			if amount.IsZero() {
				values = append(values, nil)
			} else {
				values = append(values, amount.InexactFloat64())
			}
		}
	}
	return values
}

// blockMap returns a schedule block as a field map, whether it is typed or
// was decoded from JSON.
func blockMap(v any) map[string]any {
	switch block := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return block
	default:
		data, err := json.Marshal(block)
		if err != nil {
			return map[string]any{}
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		out := map[string]any{}
		if err := dec.Decode(&out); err != nil {
			return map[string]any{}
		}
		return out
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
