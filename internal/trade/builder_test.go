package trade

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestComputeLine(t *testing.T) {
	got := ComputeLine(Line{Quantity: d("3"), UnitPrice: d("19.99"), DiscountPercent: d("10"), TaxPercent: d("11")})
	want := LineTotal{Gross: d("59.97"), Discount: d("6.00"), Net: d("53.97"), Tax: d("5.94")}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Fatalf("line mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeTotalsPercentDiscount(t *testing.T) {
	lines := []LineTotal{
		ComputeLine(Line{Quantity: d("2"), UnitPrice: d("50")}),
		ComputeLine(Line{Quantity: d("1"), UnitPrice: d("100"), TaxPercent: d("10")}),
	}
	got := ComputeTotals(lines, Discount{Kind: DiscountPercent, Value: d("10")})

	assert.True(t, got.Subtotal.Equal(d("200")))
	assert.True(t, got.Discount.Equal(d("20")))
	// 10 of tax shrinks by the 10% header discount.
	assert.True(t, got.Tax.Equal(d("9")), "tax %s", got.Tax)
	assert.True(t, got.Total.Equal(d("189")), "total %s", got.Total)
}

func TestComputeTotalsAmountDiscountIsCapped(t *testing.T) {
	lines := []LineTotal{ComputeLine(Line{Quantity: d("1"), UnitPrice: d("40")})}
	got := ComputeTotals(lines, Discount{Kind: DiscountAmount, Value: d("55")})
	assert.True(t, got.Discount.Equal(d("40")))
	assert.True(t, got.Total.IsZero())
}

func TestComputeEmptyDraft(t *testing.T) {
	q := Compute(Draft{Date: day(2026, 1, 10), Term: Term{Kind: TermInstallment, Installments: 3}})
	assert.Empty(t, q.Lines)
	assert.True(t, q.Totals.Total.IsZero())
	require.NotNil(t, q.Settlement.Payment)
	assert.True(t, q.Settlement.Payment.Amount.IsZero())
	assert.False(t, q.Settlement.IsSchedule())
}

func TestSettleCashAndCredit(t *testing.T) {
	date := time.Date(2026, 3, 5, 15, 30, 0, 0, time.UTC)

	cash := Settle(d("120.50"), date, Term{Kind: TermCash}, decimal.Zero, "transfer")
	require.NotNil(t, cash.Payment)
	assert.Equal(t, day(2026, 3, 5), cash.Payment.DueDate)
	assert.Equal(t, "transfer", cash.Payment.Method)

	credit := Settle(d("120.50"), date, Term{Kind: TermCredit, DueDays: 30}, decimal.Zero, "")
	require.NotNil(t, credit.Payment)
	assert.Equal(t, day(2026, 4, 4), credit.Payment.DueDate)
	assert.True(t, credit.Payment.Amount.Equal(d("120.50")))
	assert.Nil(t, credit.DownPayment)
}

func TestSettleInstallmentsAbsorbRemainder(t *testing.T) {
	got := Settle(d("100"), day(2026, 1, 31), Term{Kind: TermInstallment, Installments: 3, IntervalDays: 30}, decimal.Zero, "")
	want := Settlement{Installments: []Installment{
		{Number: 1, DueDate: day(2026, 3, 2), Amount: d("33.33")},
		{Number: 2, DueDate: day(2026, 4, 1), Amount: d("33.33")},
		{Number: 3, DueDate: day(2026, 5, 1), Amount: d("33.34")},
	}}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Fatalf("schedule mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitInstallmentsRoundsHalfUp(t *testing.T) {
	got := SplitInstallments(d("200"), day(2026, 1, 1), Term{Kind: TermInstallment, Installments: 3})
	amounts := make([]string, len(got))
	for i, inst := range got {
		amounts[i] = inst.Amount.StringFixed(Scale)
	}
	assert.Equal(t, []string{"66.67", "66.67", "66.66"}, amounts)
}

func TestSplitInstallmentsNeverGoNegative(t *testing.T) {
	got := SplitInstallments(d("0.05"), day(2026, 1, 1), Term{Kind: TermInstallment, Installments: 6})
	require.Len(t, got, 6)
	sum := decimal.Zero
	for _, inst := range got {
		assert.False(t, inst.Amount.IsNegative(), "installment %d", inst.Number)
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(d("0.05")))
	assert.True(t, got[0].Amount.Equal(d("0.01")))
}

func TestSettleInstallmentsWithDownPayment(t *testing.T) {
	got := Settle(d("1000"), day(2026, 6, 1), Term{Kind: TermInstallment, Installments: 4, DueDays: 7}, d("200"), "cash")
	require.NotNil(t, got.DownPayment)
	assert.True(t, got.DownPayment.Amount.Equal(d("200")))
	require.Len(t, got.Installments, 4)
	assert.Equal(t, day(2026, 7, 8), got.Installments[0].DueDate, "7 due days plus the default 30 day interval")

	sum := got.DownPayment.Amount
	for _, inst := range got.Installments {
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(d("1000")))
}

func TestSettleDownPaymentCoversTotal(t *testing.T) {
	got := Settle(d("50"), day(2026, 6, 1), Term{Kind: TermInstallment, Installments: 2}, d("80"), "")
	require.NotNil(t, got.DownPayment)
	assert.True(t, got.DownPayment.Amount.Equal(d("50")))
	assert.Empty(t, got.Installments)
}

func TestSplitInstallmentsNonPositiveCount(t *testing.T) {
	got := SplitInstallments(d("10"), day(2026, 1, 1), Term{Kind: TermInstallment})
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(d("10")))
}

func TestDraftLineOperations(t *testing.T) {
	var draft Draft
	draft.AddLine()
	draft.AddLine()
	require.Len(t, draft.Lines, 2)
	assert.True(t, draft.Lines[0].Quantity.Equal(d("1")))

	require.NoError(t, draft.UpdateLine(1, Line{ProductID: "p-2", Quantity: d("4")}))
	assert.ErrorIs(t, draft.UpdateLine(2, Line{}), ErrLineIndex)

	require.NoError(t, draft.RemoveLine(0))
	assert.Equal(t, "p-2", draft.Lines[0].ProductID)
	require.NoError(t, draft.RemoveLine(0))
	assert.Empty(t, draft.Lines)
	assert.ErrorIs(t, draft.RemoveLine(0), ErrLineIndex)

	draft.Lines = []Line{{ProductID: ""}, {ProductID: "p-9"}}
	draft.Compact()
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, "p-9", draft.Lines[0].ProductID)
}

func TestValidate(t *testing.T) {
	valid := Draft{
		Kind:    KindSale,
		PartyID: "c-1",
		Date:    day(2026, 2, 1),
		Lines:   []Line{{ProductID: "p-1", Quantity: d("1"), UnitPrice: d("10")}},
		Term:    Term{Kind: TermCash},
	}
	require.NoError(t, Validate(valid))

	broken := valid
	broken.PartyID = ""
	broken.Lines = []Line{{ProductID: "p-1", Quantity: d("0"), UnitPrice: d("-1"), DiscountPercent: d("120")}}
	broken.Term = Term{Kind: TermInstallment}
	err := Validate(broken)
	require.Error(t, err)

	var problems Problems
	require.True(t, errors.As(err, &problems))
	assert.Equal(t, "customer is required", problems["party_id"])
	assert.Contains(t, problems, "lines[0].quantity")
	assert.Contains(t, problems, "lines[0].unit_price")
	assert.Contains(t, problems, "lines[0].discount_percent")
	assert.Contains(t, problems, "term")

	purchase := valid
	purchase.Kind = KindPurchase
	purchase.PartyID = ""
	purchase.Lines = nil
	err = Validate(purchase)
	require.True(t, errors.As(err, &problems))
	assert.Equal(t, "supplier is required", problems["party_id"])
	assert.Contains(t, problems, "lines")
}
