// =============================================================================
// PO Payment Schedule - Line Consolidator
// =============================================================================
//
// This module collapses the lines of a purchase order into one record.
//
// CONSOLIDATION PROCESS:
//   1. Partition lines by raw "PO #" in first-occurrence order
//   2. Optionally drop closed lines and lines without an ERD
//   3. Pick the base line (line "0", or the smallest line number)
//   4. Sum Quantity * Cost in USD over every line into Balance
//   5. Comma-append line number, quantity and cost of the other lines onto
//      the base line; every other field takes the last line's value
//   6. Flag POs whose lines disagree on the ERD
//
// With the lineZero policy a PO without a line "0" passes through line by
// line, untouched.
//
// =============================================================================

package consolidate

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// unparsableLineNumber sorts lines with a non-numeric line number last.
const unparsableLineNumber = 999999

// appendedFields are concatenated instead of overwritten.
var appendedFields = []string{types.FieldLineNumber, types.FieldQuantity, types.FieldCostUSD}

// keptFields are never overwritten on the base line.
var keptFields = map[string]bool{
	types.FieldPONumber:   true,
	types.FieldLineNumber: true,
	types.FieldQuantity:   true,
	types.FieldCostUSD:    true,
	types.FieldERD:        true,
}

// Result is the output of Consolidate.
type Result struct {
	// Records holds one record per consolidated PO, plus the untouched
	// lines of pass-through POs, in group order.
	Records []types.Record

	// RemovedDuplicateLines counts lines merged into a base line.
	RemovedDuplicateLines int

	// RemovedInvalidLines counts lines dropped by the closed/ERD filter.
	RemovedInvalidLines int

	// PassThroughPOs lists POs emitted line by line (lineZero only).
	PassThroughPOs []string
}

// group is one PO's lines in input order.
type group struct {
	po    string
	lines []types.Record
}

// Consolidate applies the policy's filter and base-line rules to every PO.
// Input records are not modified.
func Consolidate(records []types.Record, policy types.Policy) Result {
	res := Result{Records: make([]types.Record, 0, len(records)), PassThroughPOs: []string{}}

	for _, g := range partition(records) {
		lines := g.lines
		if policy.FilterClosedOrMissingERD {
			kept := lines[:0:0]
			for _, line := range lines {
				if isInvalid(line) {
					res.RemovedInvalidLines++
					continue
				}
				kept = append(kept, line)
			}
			lines = kept
		}
		if len(lines) == 0 {
			continue
		}

		base := selectBase(lines, policy.BaseLineSelection)
		if base < 0 {
			for _, line := range lines {
				res.Records = append(res.Records, line.Clone())
			}
			res.PassThroughPOs = append(res.PassThroughPOs, g.po)
			continue
		}

		res.Records = append(res.Records, merge(lines, base))
		res.RemovedDuplicateLines += len(lines) - 1
	}

	return res
}

// partition groups records by raw PO number, keeping first-occurrence order.
func partition(records []types.Record) []*group {
	var groups []*group
	index := make(map[string]*group)
	for _, rec := range records {
		po := rec.String(types.FieldPONumber)
		g, ok := index[po]
		if !ok {
			g = &group{po: po}
			index[po] = g
			groups = append(groups, g)
		}
		g.lines = append(g.lines, rec)
	}
	return groups
}

// isInvalid reports a closed line or a line without an ERD.
func isInvalid(line types.Record) bool {
	return strings.TrimSpace(line.String(types.FieldERD)) == "" || line.IsClosed()
}

// selectBase returns the index of the base line, or -1 when the group must
// pass through.
func selectBase(lines []types.Record, selection types.BaseLineSelection) int {
	if selection == types.BaseLineMinNumber {
		best, bestNum := 0, lineNumber(lines[0])
		for i := 1; i < len(lines); i++ {
			if n := lineNumber(lines[i]); n < bestNum {
				best, bestNum = i, n
			}
		}
		return best
	}

	for i, line := range lines {
		if line.String(types.FieldLineNumber) == "0" {
			return i
		}
	}
	return -1
}

// lineNumber parses the PO line number; unparsable values sort last.
func lineNumber(line types.Record) int {
	n, err := strconv.Atoi(strings.TrimSpace(line.String(types.FieldLineNumber)))
	if err != nil {
		return unparsableLineNumber
	}
	return n
}

// merge folds every line of a group into a copy of the base line.
func merge(lines []types.Record, base int) types.Record {
	out := lines[base].Clone()
	balance := decimal.Zero

	var erds []string
	distinct := make(map[string]struct{})

	for i, line := range lines {
		qty := money.ParseAny(line[types.FieldQuantity])
		cost := money.ParseAny(line[types.FieldCostUSD])
		balance = balance.Add(qty.Mul(cost))

		if erd := strings.TrimSpace(line.String(types.FieldERD)); erd != "" {
			erds = append(erds, erd)
			distinct[erd] = struct{}{}
		}

		if i == base {
			continue
		}
		for _, field := range appendedFields {
			out[field] = appendValue(out.String(field), line.String(field))
		}
		for key, value := range line {
			if !keptFields[key] {
				out[key] = value
			}
		}
	}

	conflict := len(distinct) > 1
	details := ""
	if conflict {
		details = strings.Join(erds, ",")
	}

	out[types.FieldBalance] = money.NewAmount(balance)
	out[types.FieldERDConflict] = conflict
	out[types.FieldERDConflictDetails] = details
	return out
}

// appendValue joins with a comma. Duplicates are kept; an empty side yields
// the other side.
func appendValue(base, addition string) string {
	if base == "" {
		return addition
	}
	if addition == "" {
		return base
	}
	return base + "," + addition
}
