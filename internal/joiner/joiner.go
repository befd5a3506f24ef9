// Package joiner attaches vendor payment terms to PO lines.
//
// The join is two hops: a line's vendor ID ("ID") resolves to the vendor's
// term name, and the term name resolves to a row of the term-definition
// table. A term name that resolves to nothing is not an error; the line keeps
// empty term fields and the miss is recorded for the final report.
package joiner

import (
	"strings"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// Result is the output of Join.
type Result struct {
	// Records are the enriched lines, in input order.
	Records []types.Record

	// UndefinedTermVendors holds "<Supplier>(<term>)" for every line whose
	// vendor has a term name missing from the definition table.
	UndefinedTermVendors *types.OrderedSet

	// UndefinedTermPOs holds "<PO #>(<term>)" for the same lines.
	UndefinedTermPOs *types.OrderedSet
}

// Join enriches every line with term_name, Deposit_Required, Prepay_H and
// Net_Days. Input records are not modified.
func Join(lines []types.Record, vendors map[string]types.VendorTermInfo, terms map[string]types.TermDefinition) Result {
	res := Result{
		Records:              make([]types.Record, 0, len(lines)),
		UndefinedTermVendors: types.NewOrderedSet(),
		UndefinedTermPOs:     types.NewOrderedSet(),
	}

	for _, line := range lines {
		vendor := vendors[line.String(types.FieldVendorID)]
		termName := vendor.TermName
		def := terms[strings.TrimSpace(termName)]

		if termName != "" && def.IsEmpty() {
			res.UndefinedTermVendors.Add(line.String(types.FieldSupplier) + "(" + termName + ")")
			res.UndefinedTermPOs.Add(line.String(types.FieldPONumber) + "(" + termName + ")")
		}

		out := line.Clone()
		out[types.FieldTermName] = termName
		out[types.FieldDepositRequired] = def.DepositRequired
		out[types.FieldPrepay] = def.PrepayPercent
		out[types.FieldNetDays] = def.NetDays
		res.Records = append(res.Records, out)
	}

	return res
}
