// =============================================================================
// PO Payment Schedule - Processing Pipeline
// =============================================================================
//
// This module turns loaded inputs into the final report. It does no I/O.
//
// PROCESSING PIPELINE:
//   1. Join vendor payment terms onto every PO line
//   2. Consolidate lines into one record per PO
//   3. Attach the paid amount from the ledger
//   4. Compute Deposit / Prepay / Unpaid schedule blocks
//   5. Finalize: pull out records without a term name, drop pass-through
//      columns, count ERD conflicts and fill the report counters
//
// Given the same inputs, policy and reference time the output is identical.
//
// =============================================================================

package pipeline

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/po-payment-schedule/internal/consolidate"
	"github.com/ginjaninja78/po-payment-schedule/internal/joiner"
	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/schedule"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// Input is everything a run reads, already loaded.
type Input struct {
	// Lines are the PO source "data" records.
	Lines []types.Record

	// Vendors maps vendor entity ID to its term info.
	Vendors map[string]types.VendorTermInfo

	// Terms maps term name to its definition.
	Terms map[string]types.TermDefinition

	// Paid maps PO number to the cumulative paid amount.
	Paid map[string]decimal.Decimal
}

// Options control a Process call.
type Options struct {
	Policy types.Policy

	// Now is the reference time for anchor bucketing.
	Now time.Time

	// DropFields are deleted from every output record.
	DropFields []string
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// LinesRead is the number of PO lines in the source.
	LinesRead int

	// RecordsWritten is the number of records in the final data array.
	RecordsWritten int

	// MergedLines is the number of lines folded into a base line.
	MergedLines int

	// FilteredLines is the number of closed or ERD-less lines dropped.
	FilteredLines int

	// PassThroughPOs is the number of POs emitted line by line.
	PassThroughPOs int

	// EmptyTermRecords is the number of records removed for lacking a term.
	EmptyTermRecords int

	// UndefinedTermPOs is the number of POs whose term has no definition.
	UndefinedTermPOs int

	// ERDConflicts is the number of records whose lines disagree on the ERD.
	ERDConflicts int

	// ValidationIssues is the number of validation warnings (set by Run).
	ValidationIssues int

	// ProcessingTime is the wall time of the run (set by Run).
	ProcessingTime time.Duration
}

// Process runs the pure part of the pipeline.
//
// PARAMETERS:
//   - in: The loaded inputs. Nothing in it is modified.
//   - opts: Policy, reference time and the fields to drop.
//
// RETURNS:
//   - The final report, ready to serialise.
//   - Counters describing what happened.
func Process(in Input, opts Options) (*types.FinalReport, ProcessingStats) {
	stats := ProcessingStats{LinesRead: len(in.Lines)}

	joined := joiner.Join(in.Lines, in.Vendors, in.Terms)
	stats.UndefinedTermPOs = joined.UndefinedTermPOs.Len()

	merged := consolidate.Consolidate(joined.Records, opts.Policy)
	stats.MergedLines = merged.RemovedDuplicateLines
	stats.FilteredLines = merged.RemovedInvalidLines
	stats.PassThroughPOs = len(merged.PassThroughPOs)

	withPaid := AttachPaid(merged.Records, in.Paid)
	scheduled := schedule.NewCalculator(opts.Policy, opts.Now).Apply(withPaid)

	report := finalize(scheduled, opts.DropFields)
	report.TotalLines = len(in.Lines)
	report.RemovedDuplicateLines = merged.RemovedDuplicateLines
	report.RemovedInvalidLines = merged.RemovedInvalidLines
	report.UndefinedTermVendors = joined.UndefinedTermVendors.Items()
	report.UndefinedTermPOs = joined.UndefinedTermPOs.Items()

	stats.RecordsWritten = len(report.Data)
	stats.EmptyTermRecords = len(scheduled) - len(report.Data)
	stats.ERDConflicts = report.ERDConflictPOCount
	return report, stats
}

// AttachPaid returns copies of records with "paid" set from the ledger. A PO
// missing from the ledger has paid 0.
func AttachPaid(records []types.Record, paid map[string]decimal.Decimal) []types.Record {
	out := make([]types.Record, 0, len(records))
	for _, rec := range records {
		amount := paid[strings.TrimSpace(rec.String(types.FieldPONumber))]
		next := rec.Clone()
		next[types.FieldPaid] = money.NewAmount(amount)
		out = append(out, next)
	}
	return out
}

// finalize splits off records without a term name and fills the report.
// records are owned by the caller's pipeline and modified in place.
func finalize(records []types.Record, dropFields []string) *types.FinalReport {
	emptyPOs := types.NewOrderedSet()
	emptyVendors := types.NewOrderedSet()
	emptyAmount := decimal.Zero

	conflictCount := 0
	conflictAmount := decimal.Zero

	data := make([]types.Record, 0, len(records))
	for _, rec := range records {
		balance := money.ParseAny(rec[types.FieldBalance])

		if strings.TrimSpace(rec.String(types.FieldTermName)) == "" {
			emptyPOs.Add(rec.String(types.FieldPONumber))
			emptyVendors.Add(rec.String(types.FieldSupplier))
			emptyAmount = emptyAmount.Add(balance)
			continue
		}

		if conflict, _ := rec[types.FieldERDConflict].(bool); conflict {
			conflictCount++
			conflictAmount = conflictAmount.Add(balance)
		}

		for _, field := range dropFields {
			delete(rec, field)
		}
		data = append(data, rec)
	}

	return &types.FinalReport{
		Data:               data,
		POCount:            len(data),
		EmptyTermPOs:       emptyPOs.Items(),
		EmptyTermVendors:   emptyVendors.Items(),
		EmptyTermAmount:    money.NewAmount(emptyAmount),
		ERDConflictPOCount: conflictCount,
		ERDConflictAmount:  money.Format2(conflictAmount),
	}
}
