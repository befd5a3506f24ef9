// =============================================================================
// PO Payment Schedule - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - ingest
//   - joiner
//   - consolidate
//   - schedule
//   - pipeline
//   - report
//
// RECORDS:
//   PO lines arrive from NetSuite as flat JSON objects keyed by the saved
//   search column label ("PO #", "Quantity", ...). Most columns are passed
//   through untouched, so a Record is a map rather than a struct. The field
//   name constants below cover every column the pipeline reads or writes.
//
// =============================================================================

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FIELD NAMES
// =============================================================================

// Upstream columns read from the PO source.
const (
	FieldSupplier    = "Supplier"
	FieldVendorID    = "ID"
	FieldPONumber    = "PO #"
	FieldLineNumber  = "PO Line No."
	FieldQuantity    = "Quantity"
	FieldCostUSD     = "Cost in USD"
	FieldERD         = "Estimated Ready Date / ERD"
	FieldDateEntered = "Date Entered"
	FieldClosed      = "Closed"
)

// Columns added by the pipeline.
const (
	FieldTermName           = "term_name"
	FieldDepositRequired    = "Deposit_Required"
	FieldPrepay             = "Prepay_H"
	FieldNetDays            = "Net_Days"
	FieldBalance            = "Balance"
	FieldPaid               = "paid"
	FieldERDConflict        = "multiple ERDs Conflict"
	FieldERDConflictDetails = "ERDs Conflict Details"
	FieldDeposit            = "Deposit"
	FieldPrepayBlock        = "Prepay"
	FieldUnpaid             = "Unpaid"
)

// =============================================================================
// RECORD
// =============================================================================

// Record is one PO line (or one consolidated PO) keyed by column label.
//
// Values are whatever the JSON decoder produced (string, json.Number, bool,
// nil) plus the typed values the pipeline attaches (decimal amounts and
// schedule blocks).
type Record map[string]any

// String returns the field as text. Missing and null fields return "".
func (r Record) String(key string) string {
	return Stringify(r[key])
}

// Has reports whether the field is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Clone returns a shallow copy. Stage transforms clone before writing so the
// caller's records are never mutated.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Stringify renders a decoded JSON value the way it appeared in the source.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case decimal.Decimal:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// IsClosed reports whether the record's closed flag is set.
// NetSuite sends a JSON boolean; XLSX exports carry "true"/"T"/"Yes".
func (r Record) IsClosed() bool {
	switch val := r[FieldClosed].(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "yes", "y":
			return true
		}
	}
	return false
}

// =============================================================================
// VENDOR AND TERM TYPES
// =============================================================================

// Vendor is one row of the SuiteQL vendor/term query.
type Vendor struct {
	ID          FlexString `json:"id"`
	EntityID    FlexString `json:"entityid"`
	CompanyName FlexString `json:"companyname"`
	Terms       FlexString `json:"terms"`
	TermName    FlexString `json:"term_name"`
}

// VendorTermInfo is the vendor master data the joiner needs.
type VendorTermInfo struct {
	VendorID    string
	TermName    string
	Terms       string
	CompanyName string
}

// TermDefinition is one row of the payment-term reference table.
// Fractions are kept as the raw percentage strings ("30%"); they are parsed
// where amounts are computed.
type TermDefinition struct {
	Name            string
	DepositRequired string
	PrepayPercent   string
	NetDays         string
}

// IsEmpty reports whether the definition carries no usable values.
func (d TermDefinition) IsEmpty() bool {
	return d.DepositRequired == "" && d.PrepayPercent == "" && d.NetDays == ""
}

// FlexString accepts a JSON string, number or null.
// SuiteQL returns some numeric columns as numbers and others as strings.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") {
		return fmt.Errorf("expected string or number, got %.20s", text)
	}
	if strings.HasPrefix(text, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(text)
	return nil
}

// String returns the underlying text.
func (f FlexString) String() string {
	return string(f)
}
