// Package lookup loads the keyed reference tables the joiner and the
// schedule stage read from: payment-term definitions keyed by term name and
// the paid ledger keyed by PO number.
package lookup

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/csvparser"
	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// Column names of the reference tables.
const (
	ColumnTermName        = "Term Name"
	ColumnDepositRequired = "Deposit Required"
	ColumnPrepayPercent   = "Prepay % (Due <= ERD)"
	ColumnNetDays         = "Net Days (Due post ERD)"

	ColumnPO          = "PO"
	ColumnDebitAmount = "Debit Amount"
)

// Spec describes one keyed table.
type Spec[V any] struct {
	// KeyColumn is the header whose trimmed value keys the table. A file
	// without this column is rejected.
	KeyColumn string

	// KeepEmptyKey keeps rows whose key is blank, stored under "".
	KeepEmptyKey bool

	// Value builds the stored value from a row.
	Value func(row map[string]string) V
}

// Load streams a delimited file into a map keyed by Spec.KeyColumn.
// A repeated non-empty key keeps the last row and is logged with both row
// numbers. Any read failure is returned with the
// file path and no partial table.
func Load[V any](path string, settings config.CSVSettings, spec Spec[V]) (map[string]V, error) {
	parser, err := csvparser.NewStreamingParser(path, settings)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer parser.Close()

	if !parser.HasColumn(spec.KeyColumn) {
		return nil, &types.StructureError{File: path, Field: spec.KeyColumn, Reason: "column not found"}
	}

	table := make(map[string]V)
	rows := make(map[string]int)
	for parser.Next() {
		row := parser.Row()
		key := strings.TrimSpace(row[spec.KeyColumn])
		if key == "" && !spec.KeepEmptyKey {
			continue
		}
		if first, dup := rows[key]; dup && key != "" {
			slog.Warn("duplicate lookup key, keeping later row",
				"file", path, "column", spec.KeyColumn, "key", key,
				"first_row", first, "row", parser.RowNumber())
		}
		rows[key] = parser.RowNumber()
		table[key] = spec.Value(row)
	}
	if err := parser.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// TermDefinitions is the Spec for PTDefine.csv.
var TermDefinitions = Spec[types.TermDefinition]{
	KeyColumn: ColumnTermName,
	Value: func(row map[string]string) types.TermDefinition {
		return types.TermDefinition{
			Name:            strings.TrimSpace(row[ColumnTermName]),
			DepositRequired: row[ColumnDepositRequired],
			PrepayPercent:   row[ColumnPrepayPercent],
			NetDays:         row[ColumnNetDays],
		}
	},
}

// PaidLedger is the Spec for the paid-amount export. Blank PO numbers are
// kept under "" so unassigned debits are not lost.
var PaidLedger = Spec[decimal.Decimal]{
	KeyColumn:    ColumnPO,
	KeepEmptyKey: true,
	Value: func(row map[string]string) decimal.Decimal {
		return money.Parse(row[ColumnDebitAmount])
	},
}

// LoadTermDefinitions loads the payment-term table.
func LoadTermDefinitions(path string, settings config.CSVSettings) (map[string]types.TermDefinition, error) {
	return Load(path, settings, TermDefinitions)
}

// LoadPaidLedger loads the paid-amount ledger.
func LoadPaidLedger(path string, settings config.CSVSettings) (map[string]decimal.Decimal, error) {
	return Load(path, settings, PaidLedger)
}
