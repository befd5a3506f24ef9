package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

var refNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func record(balance, paid, deposit, prepay, netDays, entered, erd string) types.Record {
	return types.Record{
		types.FieldBalance:         money.NewAmount(money.Parse(balance)),
		types.FieldPaid:            money.NewAmount(money.Parse(paid)),
		types.FieldDepositRequired: deposit,
		types.FieldPrepay:          prepay,
		types.FieldNetDays:         netDays,
		types.FieldDateEntered:     entered,
		types.FieldERD:             erd,
	}
}

func blocks(t *testing.T, rec types.Record) (DepositBlock, PrepayBlock, UnpaidBlock) {
	t.Helper()
	d, ok := rec[types.FieldDeposit].(DepositBlock)
	require.True(t, ok)
	p, ok := rec[types.FieldPrepayBlock].(PrepayBlock)
	require.True(t, ok)
	u, ok := rec[types.FieldUnpaid].(UnpaidBlock)
	require.True(t, ok)
	return d, p, u
}

func TestScheduleDepositWhenNothingPaid(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	rec := record("1000", "0", "20%", "30%", "30", "3/1/2025 7:58 am", "5/10/2025")

	d, p, u := blocks(t, calc.Schedule(rec))

	assert.Equal(t, "200.00", money.Format2(d.Due.Decimal))
	assert.Equal(t, "3/15/2025", d.Date)
	assert.Equal(t, "Mar", d.Anchor)
	assert.Equal(t, "20%", d.Percent)

	assert.Equal(t, "0.00", money.Format2(p.Due.Decimal))
	assert.Equal(t, "5/10/2025", p.Date)
	assert.Equal(t, "May", p.Anchor)

	assert.Equal(t, "1000", u.Value.String())
	assert.Equal(t, "50%", u.Percent)
	assert.Equal(t, "500", u.Due.String())
	assert.Equal(t, "6/9/2025", u.Date)
	assert.Equal(t, "Jun", u.Anchor)
}

func TestSchedulePrepayAfterPayment(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	rec := record("1000", "300", "30%", "70%", "0", "1/1/2025", "4/1/2025")

	d, p, u := blocks(t, calc.Schedule(rec))

	assert.True(t, d.Due.IsZero())
	assert.Equal(t, "1/15/2025", d.Date)
	assert.Equal(t, PastDue, d.Anchor)
	assert.Equal(t, "490", p.Due.String())
	assert.Equal(t, "0%", u.Percent)
	assert.True(t, u.Due.IsZero())
	assert.Equal(t, "700", u.Value.String())
}

func TestScheduleRemainderBase(t *testing.T) {
	rec := record("1000", "400", "10%", "20%", "30", "1/1/2025", "4/1/2025")

	unpaidBase := NewCalculator(types.DefaultPolicy(), refNow)
	_, _, u := blocks(t, unpaidBase.Schedule(rec))
	assert.Equal(t, "420", u.Due.String(), "70% of unpaid 600")

	balanceBase, err := types.PolicyPreset(types.PresetLineZeroMerge)
	require.NoError(t, err)
	_, _, u = blocks(t, NewCalculator(balanceBase, refNow).Schedule(rec))
	assert.Equal(t, "600", u.Due.String(), "70% of balance capped at unpaid")

	unpaidOnly := record("1000", "0", "10%", "20%", "30", "1/1/2025", "4/1/2025")
	_, _, u = blocks(t, NewCalculator(balanceBase, refNow).Schedule(unpaidOnly))
	assert.True(t, u.Due.IsZero(), "balance base computes nothing before a payment")
	_, _, u = blocks(t, unpaidBase.Schedule(unpaidOnly))
	assert.Equal(t, "700", u.Due.String())
}

func TestScheduleOverpaidNeverNegative(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	rec := record("100", "150", "0%", "50%", "", "", "")

	d, p, u := blocks(t, calc.Schedule(rec))

	assert.True(t, d.Due.IsZero())
	assert.True(t, p.Due.IsZero())
	assert.True(t, u.Due.IsZero())
	assert.Equal(t, "-50", u.Value.String())
}

func TestScheduleFractionsOverOne(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	for _, paid := range []string{"0", "10"} {
		rec := record("100", paid, "80%", "150%", "0", "1/1/2025", "4/1/2025")
		d, p, u := blocks(t, calc.Schedule(rec))

		total := d.Due.Add(p.Due.Decimal).Add(u.Due.Decimal)
		assert.True(t, total.LessThanOrEqual(decimal.NewFromInt(100)), "paid %s: %s", paid, total)
		assert.Equal(t, "0%", u.Percent)
		assert.Equal(t, "150%", p.Percent, "percent string is echoed")
	}
}

func TestScheduleMissingInputs(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)

	d, p, u := blocks(t, calc.Schedule(types.Record{}))

	assert.Equal(t, "", d.Date)
	assert.Equal(t, "", d.Anchor)
	assert.Equal(t, "0%", d.Percent)
	assert.Equal(t, "", p.Date)
	assert.Equal(t, "", u.Anchor)
	assert.Equal(t, "100%", u.Percent)
	assert.True(t, u.Due.IsZero())
}

func TestScheduleUndefinedTermDefaultsToZeroFractions(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	rec := record("500", "0", "", "", "", "3/10/2025", "3/20/2025")

	d, p, u := blocks(t, calc.Schedule(rec))

	assert.True(t, d.Due.IsZero())
	assert.True(t, p.Due.IsZero())
	assert.Equal(t, "100%", u.Percent)
	assert.Equal(t, "500", u.Due.String())
	assert.Equal(t, "3/20/2025", u.Date)
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	rec := record("1", "0", "", "", "", "", "")
	out := calc.Apply([]types.Record{rec})

	require.Len(t, out, 1)
	assert.False(t, rec.Has(types.FieldDeposit))
	assert.True(t, out[0].Has(types.FieldDeposit))
}

func TestScheduleJSONShape(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	rec := record("1000", "0", "20%", "", "30", "3/1/2025", "5/10/2025")

	data, err := json.Marshal(calc.Schedule(rec)[types.FieldDeposit])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Deposit Date":"3/15/2025","Deposit % Due":"20%","Deposit anchor":"Mar","Deposit $ Due":200}`, string(data))

	data, err = json.Marshal(calc.Schedule(rec)[types.FieldUnpaid])
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":1000,"Unpaid Date":"6/9/2025","Unpaid % Due":"80%","Unpaid anchor":"Jun","Unpaid $ Due":800}`, string(data))
}

func TestScheduleRoundsAtOutput(t *testing.T) {
	calc := NewCalculator(types.DefaultPolicy(), refNow)
	rec := record("0.333", "0", "50%", "", "", "", "")

	d, _, _ := blocks(t, calc.Schedule(rec))
	assert.Equal(t, "0.1665", d.Due.Decimal.String())

	data, err := json.Marshal(d.Due)
	require.NoError(t, err)
	assert.Equal(t, "0.17", string(data))
}
