// Package report renders a final run document for people: a per-supplier
// pay plan (HTML and XLSX) plus the run diagnostics.
//
// The renderers only read the "data" array and each record's Deposit,
// Prepay and Unpaid blocks. Blocks may be typed (straight from a run) or
// plain maps (read back from a final JSON file).
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/schedule"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// UnknownSupplier labels records without a supplier name.
const UnknownSupplier = "Unknown Supplier"

// Kinds are the schedule blocks, in column order.
var Kinds = []string{types.FieldDeposit, types.FieldPrepayBlock, types.FieldUnpaid}

// SubColumns are the amounts shown under every column.
var SubColumns = []string{types.FieldDeposit, types.FieldPrepayBlock, types.FieldUnpaid, "Total"}

// Cell holds one column's amounts for one supplier.
type Cell struct {
	Deposit decimal.Decimal
	Prepay  decimal.Decimal
	Unpaid  decimal.Decimal
	Total   decimal.Decimal
}

// Amount returns the amount of kind ("Deposit", "Prepay", "Unpaid" or
// "Total").
func (c Cell) Amount(kind string) decimal.Decimal {
	switch kind {
	case types.FieldDeposit:
		return c.Deposit
	case types.FieldPrepayBlock:
		return c.Prepay
	case types.FieldUnpaid:
		return c.Unpaid
	default:
		return c.Total
	}
}

func (c *Cell) add(kind string, amount decimal.Decimal) {
	switch kind {
	case types.FieldDeposit:
		c.Deposit = c.Deposit.Add(amount)
	case types.FieldPrepayBlock:
		c.Prepay = c.Prepay.Add(amount)
	case types.FieldUnpaid:
		c.Unpaid = c.Unpaid.Add(amount)
	}
	c.Total = c.Total.Add(amount)
}

// Row is one supplier's cells, aligned with Summary.Columns.
type Row struct {
	Supplier string
	Cells    []Cell
}

// Summary is the supplier by column pay plan.
type Summary struct {
	// Columns are "Past Due" then the current month through "Dec".
	Columns []string

	// Rows are suppliers in first-seen order.
	Rows []Row

	// Total sums every row.
	Total Row
}

// Headers returns the flattened header row: "Supplier", then
// "<column> - <kind>" for every column and kind plus Total.
func (s *Summary) Headers() []string {
	headers := []string{"Supplier"}
	for _, col := range s.Columns {
		for _, kind := range SubColumns {
			headers = append(headers, col+" - "+kind)
		}
	}
	return headers
}

// Aggregate buckets every record's due amounts by supplier and anchor.
//
// An empty or unrecognised anchor, or a month before now's month, lands in
// "Past Due". Month anchors carry no year, so a January anchor in March is
// past due.
func Aggregate(records []types.Record, now time.Time) *Summary {
	current := int(now.Month()) - 1
	columns := []string{schedule.PastDue}
	columns = append(columns, schedule.MonthNames[current:]...)

	index := make(map[string]int)
	summary := &Summary{
		Columns: columns,
		Rows:    []Row{},
		Total:   Row{Supplier: "Total", Cells: make([]Cell, len(columns))},
	}

	for _, rec := range records {
		supplier := rec.String(types.FieldSupplier)
		if supplier == "" {
			supplier = UnknownSupplier
		}
		pos, ok := index[supplier]
		if !ok {
			pos = len(summary.Rows)
			index[supplier] = pos
			summary.Rows = append(summary.Rows, Row{Supplier: supplier, Cells: make([]Cell, len(columns))})
		}

		for _, kind := range Kinds {
			anchor, due, ok := blockValues(rec[kind], kind)
			if !ok {
				continue
			}
			col := columnFor(anchor, current)
			summary.Rows[pos].Cells[col].add(kind, due)
			summary.Total.Cells[col].add(kind, due)
		}
	}

	return summary
}

// columnFor maps an anchor to a column index (0 is Past Due).
func columnFor(anchor string, current int) int {
	anchor = strings.TrimSpace(anchor)
	for i, name := range schedule.MonthNames {
		if strings.EqualFold(name, anchor) {
			if i < current {
				return 0
			}
			return i - current + 1
		}
	}
	return 0
}

// blockValues reads the anchor and due amount of a schedule block. Typed
// amounts are rounded to cents, as they would be once written to JSON.
func blockValues(v any, kind string) (string, decimal.Decimal, bool) {
	switch block := v.(type) {
	case schedule.Block:
		return block.AnchorLabel(), money.Round2(block.DueAmount()), true
	case map[string]any:
		anchor := types.Stringify(block[kind+" anchor"])
		due := money.ParseAny(block[kind+" $ Due"])
		return anchor, due, true
	default:
		return "", decimal.Zero, false
	}
}
