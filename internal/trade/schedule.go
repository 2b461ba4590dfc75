package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settle derives the settlement of total under term.
//
// Cash and credit terms produce one payment. Installment terms take the
// down payment on the transaction date and split the remainder into equal
// parts; the last part absorbs the rounding remainder so the schedule adds
// up to the exact amount.
func Settle(total decimal.Decimal, date time.Time, term Term, downPayment decimal.Decimal, method string) Settlement {
	total = round(nonNegative(total))
	date = truncateDay(date)

	switch {
	case total.IsZero():
		return Settlement{Payment: &Payment{Amount: total, DueDate: date, Method: method}}
	case term.Kind == TermCredit:
		return Settlement{Payment: &Payment{Amount: total, DueDate: date.AddDate(0, 0, max(term.DueDays, 0)), Method: method}}
	case term.Kind == TermInstallment:
		return installmentPlan(total, date, term, downPayment, method)
	default:
		return Settlement{Payment: &Payment{Amount: total, DueDate: date, Method: method}}
	}
}

func installmentPlan(total decimal.Decimal, date time.Time, term Term, downPayment decimal.Decimal, method string) Settlement {
	var s Settlement
	down := round(nonNegative(downPayment))
	if down.GreaterThan(total) {
		down = total
	}
	if down.IsPositive() {
		s.DownPayment = &Payment{Amount: down, DueDate: date, Method: method}
	}
	remaining := total.Sub(down)
	if remaining.IsZero() {
		return s
	}
	s.Installments = SplitInstallments(remaining, date, term)
	return s
}

// SplitInstallments divides amount into the term's installments.
func SplitInstallments(amount decimal.Decimal, date time.Time, term Term) []Installment {
	count := term.Installments
	if count <= 0 {
		count = 1
	}
	interval := term.IntervalDays
	if interval <= 0 {
		interval = DefaultIntervalDays
	}
	start := truncateDay(date).AddDate(0, 0, max(term.DueDays, 0))

	share := amount.Div(decimal.NewFromInt(int64(count))).Round(Scale)
	out := make([]Installment, count)
	allocated := decimal.Zero
	for i := range count {
		part := decimal.Min(share, amount.Sub(allocated))
		if i == count-1 {
			part = amount.Sub(allocated)
		}
		allocated = allocated.Add(part)
		out[i] = Installment{
			Number:  i + 1,
			DueDate: start.AddDate(0, 0, (i+1)*interval),
			Amount:  part,
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
