// =============================================================================
// PO Payment Schedule - Schedule Calculator
// =============================================================================
//
// This module projects when the remaining money on a PO is due.
//
// Every record gets three blocks:
//
//   Deposit : Deposit_Required of Balance, due 14 days after Date Entered,
//             owed only while nothing has been paid.
//   Prepay  : Prepay_H of the unpaid amount, due on the ERD, owed only once
//             something has been paid.
//   Unpaid  : the rest (1 - deposit - prepay), due Net_Days after the ERD,
//             capped at the unpaid amount.
//
// Amounts are kept exact and rounded to cents only when serialised. Anchors
// compare against an injected reference time, never the wall clock.
//
// =============================================================================

package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// depositLeadDays is the gap between order entry and the deposit date.
const depositLeadDays = 14

var one = decimal.NewFromInt(1)

// =============================================================================
// SCHEDULE BLOCKS
// =============================================================================

// Block is the part of a schedule block the report needs.
type Block interface {
	AnchorLabel() string
	DueAmount() decimal.Decimal
}

// DepositBlock is the "Deposit" field of a scheduled record.
type DepositBlock struct {
	Date    string       `json:"Deposit Date"`
	Percent string       `json:"Deposit % Due"`
	Anchor  string       `json:"Deposit anchor"`
	Due     money.Amount `json:"Deposit $ Due"`
}

// PrepayBlock is the "Prepay" field of a scheduled record.
type PrepayBlock struct {
	Date    string       `json:"Prepay Date"`
	Percent string       `json:"Prepay % Due"`
	Anchor  string       `json:"Prepay anchor"`
	Due     money.Amount `json:"Prepay $ Due"`
}

// UnpaidBlock is the "Unpaid" field of a scheduled record. Value is the
// whole outstanding amount (Balance - paid).
type UnpaidBlock struct {
	Value   money.Amount `json:"value"`
	Date    string       `json:"Unpaid Date"`
	Percent string       `json:"Unpaid % Due"`
	Anchor  string       `json:"Unpaid anchor"`
	Due     money.Amount `json:"Unpaid $ Due"`
}

func (b DepositBlock) AnchorLabel() string        { return b.Anchor }
func (b DepositBlock) DueAmount() decimal.Decimal { return b.Due.Decimal }
func (b PrepayBlock) AnchorLabel() string         { return b.Anchor }
func (b PrepayBlock) DueAmount() decimal.Decimal  { return b.Due.Decimal }
func (b UnpaidBlock) AnchorLabel() string         { return b.Anchor }
func (b UnpaidBlock) DueAmount() decimal.Decimal  { return b.Due.Decimal }

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes schedule blocks under one policy and reference time.
type Calculator struct {
	policy types.Policy
	now    time.Time
}

// NewCalculator returns a calculator anchored at now.
func NewCalculator(policy types.Policy, now time.Time) *Calculator {
	return &Calculator{policy: policy, now: now}
}

// Apply returns copies of records with Deposit, Prepay and Unpaid attached.
func (c *Calculator) Apply(records []types.Record) []types.Record {
	out := make([]types.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, c.Schedule(rec))
	}
	return out
}

// Schedule returns a copy of rec with its schedule blocks attached.
//
// PARAMETERS:
//   - rec: A consolidated record carrying Balance, paid, Deposit_Required,
//     Prepay_H, Net_Days, Date Entered and the ERD. Missing values are zero
//     and unparsable dates leave empty date and anchor strings.
//
// RETURNS:
//   - A new record; rec is not modified.
func (c *Calculator) Schedule(rec types.Record) types.Record {
	balance := money.ParseAny(rec[types.FieldBalance])
	paid := money.ParseAny(rec[types.FieldPaid])
	unpaid := balance.Sub(paid)

	depositFrac := money.Clamp01(money.ParsePercent(rec[types.FieldDepositRequired]))
	prepayFrac := money.Clamp01(money.ParsePercent(rec[types.FieldPrepay]))
	remainderFrac := decimal.Max(decimal.Zero, one.Sub(depositFrac).Sub(prepayFrac))

	entered, enteredOK := ParseDate(rec.String(types.FieldDateEntered))
	erd, erdOK := ParseDate(rec.String(types.FieldERD))
	netDays := money.LeadingInt(rec.String(types.FieldNetDays))

	// Deposit
	depositDue := decimal.Zero
	if !paid.IsPositive() {
		depositDue = depositFrac.Mul(balance)
	}
	deposit := DepositBlock{
		Percent: percentOrZero(rec.String(types.FieldDepositRequired)),
		Due:     money.NewAmount(depositDue),
	}
	if enteredOK {
		date := entered.AddDate(0, 0, depositLeadDays)
		deposit.Date = FormatDate(date)
		deposit.Anchor = Anchor(date, c.now, c.policy.DateBucketGranularity)
	}

	// Prepay
	prepayDue := decimal.Zero
	if paid.IsPositive() {
		prepayDue = decimal.Max(decimal.Zero, prepayFrac.Mul(unpaid))
	}
	prepay := PrepayBlock{
		Percent: percentOrZero(rec.String(types.FieldPrepay)),
		Due:     money.NewAmount(prepayDue),
	}
	if erdOK {
		prepay.Date = FormatDate(erd)
		prepay.Anchor = Anchor(erd, c.now, c.policy.DateBucketGranularity)
	}

	// Remainder
	remainder := UnpaidBlock{
		Value:   money.NewAmount(unpaid),
		Percent: remainderFrac.Mul(decimal.NewFromInt(100)).Round(0).String() + "%",
		Due:     money.NewAmount(c.remainderDue(balance, paid, unpaid, remainderFrac)),
	}
	if erdOK {
		date := erd.AddDate(0, 0, netDays)
		remainder.Date = FormatDate(date)
		remainder.Anchor = Anchor(date, c.now, c.policy.DateBucketGranularity)
	}

	out := rec.Clone()
	out[types.FieldDeposit] = deposit
	out[types.FieldPrepayBlock] = prepay
	out[types.FieldUnpaid] = remainder
	return out
}

// remainderDue applies the remainder fraction to the policy's base and caps
// the result to [0, unpaid].
func (c *Calculator) remainderDue(balance, paid, unpaid, frac decimal.Decimal) decimal.Decimal {
	due := decimal.Zero
	switch c.policy.RemainderBase {
	case types.RemainderOnBalance:
		if paid.IsPositive() {
			due = decimal.Min(frac.Mul(balance), unpaid)
		}
	default:
		if unpaid.IsPositive() {
			due = decimal.Min(frac.Mul(unpaid), unpaid)
		}
	}
	return decimal.Max(decimal.Zero, due)
}

// percentOrZero echoes the source percentage, or "0%" when blank.
func percentOrZero(s string) string {
	if s == "" {
		return "0%"
	}
	return s
}
